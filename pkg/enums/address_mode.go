package enums

import "fmt"

// AddressMode distinguishes selecting a saved address from entering a new one.
type AddressMode string

const (
	AddressModeExisting AddressMode = "existing"
	AddressModeNew      AddressMode = "new"
)

var validAddressModes = []AddressMode{
	AddressModeExisting,
	AddressModeNew,
}

// String implements fmt.Stringer.
func (a AddressMode) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AddressMode.
func (a AddressMode) IsValid() bool {
	for _, candidate := range validAddressModes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAddressMode converts raw input into an AddressMode.
func ParseAddressMode(value string) (AddressMode, error) {
	for _, candidate := range validAddressModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid address mode %q", value)
}
