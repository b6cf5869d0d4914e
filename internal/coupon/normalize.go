package coupon

import (
	"regexp"
	"strings"
)

// maxCodeLength caps normalized coupon codes. Anything longer is truncated
// before lookup, matching how codes are issued.
const maxCodeLength = 50

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)

// Normalize canonicalizes a user-entered coupon code: trim, uppercase, strip
// everything that is not a letter or digit, cap the length. An empty result
// means the input was never a plausible code and no lookup should happen.
func Normalize(raw string) string {
	code := nonAlphanumeric.ReplaceAllString(strings.ToUpper(strings.TrimSpace(raw)), "")
	if len(code) > maxCodeLength {
		code = code[:maxCodeLength]
	}
	return code
}
