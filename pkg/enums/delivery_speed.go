package enums

import "fmt"

// DeliverySpeed is the requested dispatch turnaround.
type DeliverySpeed string

const (
	DeliverySpeedStandard DeliverySpeed = "standard"
	DeliverySpeedSameDay  DeliverySpeed = "same_day"
)

var validDeliverySpeeds = []DeliverySpeed{
	DeliverySpeedStandard,
	DeliverySpeedSameDay,
}

// String implements fmt.Stringer.
func (d DeliverySpeed) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliverySpeed.
func (d DeliverySpeed) IsValid() bool {
	for _, candidate := range validDeliverySpeeds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliverySpeed converts raw input into a DeliverySpeed.
func ParseDeliverySpeed(value string) (DeliverySpeed, error) {
	for _, candidate := range validDeliverySpeeds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery speed %q", value)
}
