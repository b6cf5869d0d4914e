package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasoahq/checkout-backend/pkg/enums"
	"github.com/kasoahq/checkout-backend/pkg/errors"
)

func TestValidPhone(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidPhone("0201234567"))
	assert.True(t, ValidPhone("020 123 4567"))
	assert.True(t, ValidPhone("054-123-4567"))
	assert.True(t, ValidPhone("0591234567"))

	assert.False(t, ValidPhone("030 123 4567"), "030 is not a mobile provider prefix")
	assert.False(t, ValidPhone("020123456"), "nine digits")
	assert.False(t, ValidPhone("02012345678"), "eleven digits")
	assert.False(t, ValidPhone(""))
}

func TestNormalizeDigitalAddress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"ga1234567", "GA-123-4567", true},
		{"GA-12-34567", "GA-123-4567", true},
		{"GA-123-4567", "GA-123-4567", true},
		{"ct 000 1234", "CT-000-1234", true},
		{"GA-123-456", "", false},
		{"1234567GA", "", false},
		{"GAX1234567", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeDigitalAddress(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func validInput() Input {
	return Input{
		FullName:      "Ama Mensah",
		StreetAddress: "12 Oxford Street",
		Area:          "Osu",
		City:          "accra",
		Region:        "Greater Accra",
		ContactPhone:  "020 123 4567",
	}
}

func TestInputValidateSuccess(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.DigitalAddress = "ga1234567"

	normalized, fields := in.Validate()
	require.Empty(t, fields)
	require.NotNil(t, normalized)

	assert.Equal(t, enums.CityAccra, normalized.City)
	assert.Equal(t, "0201234567", normalized.ContactPhone)
	require.NotNil(t, normalized.DigitalAddress)
	assert.Equal(t, "GA-123-4567", *normalized.DigitalAddress)
}

func TestInputValidateCollectsEveryFieldFailure(t *testing.T) {
	t.Parallel()

	in := Input{
		City:           "KUMASI",
		ContactPhone:   "030 123 4567",
		DigitalAddress: "nope",
	}

	normalized, fields := in.Validate()
	assert.Nil(t, normalized)

	assert.Equal(t, errors.ReasonUnsupportedCity, fields["city"])
	assert.Equal(t, errors.ReasonInvalidPhone, fields["contact_phone"])
	assert.Equal(t, errors.ReasonInvalidDigitalAddress, fields["digital_address"])
	assert.Equal(t, errors.ReasonRequired, fields["full_name"])
	assert.Equal(t, errors.ReasonRequired, fields["street_address"])
	assert.Equal(t, errors.ReasonRequired, fields["area"])
	assert.Equal(t, errors.ReasonRequired, fields["region"])
}

func TestInputValidateDigitalAddressOptional(t *testing.T) {
	t.Parallel()

	normalized, fields := validInput().Validate()
	require.Empty(t, fields)
	assert.Nil(t, normalized.DigitalAddress)
}
