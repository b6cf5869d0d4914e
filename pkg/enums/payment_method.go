package enums

import "fmt"

// PaymentMethod describes how a buyer intends to settle an order.
type PaymentMethod string

const (
	PaymentMethodOnDelivery    PaymentMethod = "payment_on_delivery"
	PaymentMethodMobileMoney   PaymentMethod = "mobile_money"
	PaymentMethodBank          PaymentMethod = "bank"
	PaymentMethodCreditBalance PaymentMethod = "credit_balance"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodOnDelivery,
	PaymentMethodMobileMoney,
	PaymentMethodBank,
	PaymentMethodCreditBalance,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiresRedirect reports whether settling with this method goes through the
// hosted payment provider page.
func (p PaymentMethod) RequiresRedirect() bool {
	return p == PaymentMethodMobileMoney
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
