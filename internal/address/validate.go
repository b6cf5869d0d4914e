package address

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kasoahq/checkout-backend/pkg/enums"
	"github.com/kasoahq/checkout-backend/pkg/errors"
)

// Ghanaian mobile numbers: ten digits starting with a known provider prefix.
var phonePattern = regexp.MustCompile(`^(020|023|024|025|026|027|028|029|050|054|055|056|057|059)\d{7}$`)

// GhanaPostGPS digital addresses after normalization: AA-123-4567.
var digitalAddressPattern = regexp.MustCompile(`^[A-Z]{2}-\d{3}-\d{4}$`)

var (
	nonDigits       = regexp.MustCompile(`\D`)
	nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// NormalizePhone strips every non-digit character so numbers entered with
// spaces or dashes validate the same as bare digits.
func NormalizePhone(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}

// ValidPhone reports whether raw normalizes to a valid Ghanaian mobile number.
func ValidPhone(raw string) bool {
	return phonePattern.MatchString(NormalizePhone(raw))
}

// NormalizeDigitalAddress canonicalizes a GhanaPost digital address: strip
// separators, uppercase, then re-insert the dashes after the region letters
// and the district digits. "ga1234567" and "GA-12-34567" both come out as
// "GA-123-4567".
func NormalizeDigitalAddress(raw string) (string, bool) {
	stripped := strings.ToUpper(nonAlphanumeric.ReplaceAllString(raw, ""))
	if len(stripped) != 9 {
		return "", false
	}
	candidate := fmt.Sprintf("%s-%s-%s", stripped[:2], stripped[2:5], stripped[5:])
	if !digitalAddressPattern.MatchString(candidate) {
		return "", false
	}
	return candidate, true
}

// Input carries the raw fields of a new delivery address form.
type Input struct {
	FullName       string `json:"full_name"`
	StreetAddress  string `json:"street_address"`
	Area           string `json:"area"`
	Landmark       string `json:"landmark"`
	City           string `json:"city"`
	Region         string `json:"region"`
	ContactPhone   string `json:"contact_phone"`
	DigitalAddress string `json:"digital_address"`
}

// Validate checks every field and returns the full per-field failure map so
// callers can surface all problems at once rather than one at a time. On
// success the returned model carries the normalized phone and digital address.
func (in Input) Validate() (*Normalized, errors.FieldErrors) {
	fields := errors.FieldErrors{}

	required := map[string]string{
		"full_name":      in.FullName,
		"street_address": in.StreetAddress,
		"area":           in.Area,
		"city":           in.City,
		"region":         in.Region,
		"contact_phone":  in.ContactPhone,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			fields[name] = errors.ReasonRequired
		}
	}

	var city enums.City
	if strings.TrimSpace(in.City) != "" {
		parsed, err := enums.ParseCity(in.City)
		if err != nil {
			fields["city"] = errors.ReasonUnsupportedCity
		} else {
			city = parsed
		}
	}

	phone := NormalizePhone(in.ContactPhone)
	if strings.TrimSpace(in.ContactPhone) != "" && !phonePattern.MatchString(phone) {
		fields["contact_phone"] = errors.ReasonInvalidPhone
	}

	var digital *string
	if strings.TrimSpace(in.DigitalAddress) != "" {
		normalized, ok := NormalizeDigitalAddress(in.DigitalAddress)
		if !ok {
			fields["digital_address"] = errors.ReasonInvalidDigitalAddress
		} else {
			digital = &normalized
		}
	}

	if len(fields) > 0 {
		return nil, fields
	}

	return &Normalized{
		FullName:       strings.TrimSpace(in.FullName),
		StreetAddress:  strings.TrimSpace(in.StreetAddress),
		Area:           strings.TrimSpace(in.Area),
		Landmark:       strings.TrimSpace(in.Landmark),
		City:           city,
		Region:         strings.TrimSpace(in.Region),
		ContactPhone:   phone,
		DigitalAddress: digital,
	}, nil
}

// Normalized is a validated address form with canonical field values.
type Normalized struct {
	FullName       string
	StreetAddress  string
	Area           string
	Landmark       string
	City           enums.City
	Region         string
	ContactPhone   string
	DigitalAddress *string
}
