package payment

import (
	"net/url"
	"strings"

	"github.com/kasoahq/checkout-backend/pkg/errors"
)

// redirectPaths are the response shapes providers have been observed nesting
// the authorization URL under, tried in order. First hit wins.
var redirectPaths = [][]string{
	{"data", "authorization_url"},
	{"authorization_url"},
	{"data", "checkout_url"},
	{"checkout_url"},
	{"data", "url"},
	{"url"},
}

// ExtractRedirectURL pulls the payment authorization URL out of a
// loosely-shaped provider response. Missing on every known path is an
// integrity failure: the session cannot proceed without it.
func ExtractRedirectURL(resp map[string]any) (string, error) {
	for _, path := range redirectPaths {
		if value, ok := dig(resp, path); ok {
			if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
				return s, nil
			}
		}
	}
	return "", errors.NewReason(errors.CodeDependency, errors.ReasonMissingPaymentField, "payment response carries no redirect url")
}

// ValidateRedirectURL accepts a URL only when it is https and its hostname
// is the trusted payment domain or a direct subdomain of it. Look-alike
// hosts such as paystack.com.evil.net must never be opened.
func ValidateRedirectURL(raw, trustedHost string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return errors.NewReason(errors.CodeForbidden, errors.ReasonUntrustedRedirect, "redirect url unparseable")
	}
	if parsed.Scheme != "https" {
		return errors.NewReason(errors.CodeForbidden, errors.ReasonUntrustedRedirect, "redirect url must be https")
	}

	host := strings.ToLower(parsed.Hostname())
	trusted := strings.ToLower(trustedHost)
	if host == trusted {
		return nil
	}
	if rest, ok := strings.CutSuffix(host, "."+trusted); ok && rest != "" && !strings.Contains(rest, ".") {
		return nil
	}
	return errors.NewReason(errors.CodeForbidden, errors.ReasonUntrustedRedirect, "redirect host is not the payment provider")
}

// dig walks a nested map along the given key path.
func dig(m map[string]any, path []string) (any, bool) {
	var current any = m
	for _, key := range path {
		next, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = next[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
