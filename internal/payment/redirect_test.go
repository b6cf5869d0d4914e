package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasoahq/checkout-backend/pkg/errors"
)

func TestExtractRedirectURLTriesNestedShapes(t *testing.T) {
	t.Parallel()

	cases := []map[string]any{
		{"data": map[string]any{"authorization_url": "https://checkout.paystack.com/abc"}},
		{"authorization_url": "https://checkout.paystack.com/abc"},
		{"data": map[string]any{"checkout_url": "https://checkout.paystack.com/abc"}},
		{"url": "https://checkout.paystack.com/abc"},
	}
	for _, resp := range cases {
		got, err := ExtractRedirectURL(resp)
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.paystack.com/abc", got)
	}
}

func TestExtractRedirectURLFailsClosed(t *testing.T) {
	t.Parallel()

	_, err := ExtractRedirectURL(map[string]any{
		"data": map[string]any{"status": "ok", "authorization_url": ""},
	})
	require.Error(t, err)

	reason, ok := errors.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ReasonMissingPaymentField, reason)
}

func TestValidateRedirectURL(t *testing.T) {
	t.Parallel()

	const trusted = "paystack.com"

	require.NoError(t, ValidateRedirectURL("https://paystack.com/pay/abc", trusted))
	require.NoError(t, ValidateRedirectURL("https://checkout.paystack.com/abc", trusted))

	rejected := []string{
		"https://paystack.com.evil.net/abc",
		"https://notpaystack.com",
		"https://deep.checkout.paystack.com/abc",
		"http://paystack.com/pay/abc",
		"https://evil.net/?next=paystack.com",
	}
	for _, raw := range rejected {
		err := ValidateRedirectURL(raw, trusted)
		require.Error(t, err, "url %s must be rejected", raw)
		reason, ok := errors.ReasonOf(err)
		require.True(t, ok)
		assert.Equal(t, errors.ReasonUntrustedRedirect, reason, "url %s", raw)
	}
}
