package enums

import (
	"fmt"
	"strings"
)

// City is a serviceable delivery city.
type City string

const (
	CityAccra City = "ACCRA"
	CityTema  City = "TEMA"
)

var validCities = []City{
	CityAccra,
	CityTema,
}

// String implements fmt.Stringer.
func (c City) String() string {
	return string(c)
}

// IsValid reports whether the value is a known City.
func (c City) IsValid() bool {
	for _, candidate := range validCities {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCity converts raw input into a City, case-insensitively.
func ParseCity(value string) (City, error) {
	normalized := City(strings.ToUpper(strings.TrimSpace(value)))
	for _, candidate := range validCities {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid city %q", value)
}
