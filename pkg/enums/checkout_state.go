package enums

import "fmt"

// CheckoutState tracks the submission state machine for a checkout session.
type CheckoutState string

const (
	CheckoutStateIdle                 CheckoutState = "idle"
	CheckoutStateValidating           CheckoutState = "validating"
	CheckoutStateSubmitting           CheckoutState = "submitting"
	CheckoutStateBlocked              CheckoutState = "blocked"
	CheckoutStateRedirectingToPayment CheckoutState = "redirecting_to_payment"
	CheckoutStateConfirmed            CheckoutState = "confirmed"
	CheckoutStatePaymentPending       CheckoutState = "payment_pending"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateIdle,
	CheckoutStateValidating,
	CheckoutStateSubmitting,
	CheckoutStateBlocked,
	CheckoutStateRedirectingToPayment,
	CheckoutStateConfirmed,
	CheckoutStatePaymentPending,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// Terminal reports whether no further submission transitions are allowed.
func (c CheckoutState) Terminal() bool {
	switch c {
	case CheckoutStateConfirmed, CheckoutStateRedirectingToPayment, CheckoutStatePaymentPending:
		return true
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
