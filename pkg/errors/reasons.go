package errors

// Reason identifies a specific checkout failure inside a coarse Code.
// Reasons travel in the error details so the mobile client can branch on
// them without parsing messages.
type Reason string

const (
	ReasonRequired              Reason = "REQUIRED"
	ReasonNoAddressSelected     Reason = "NO_ADDRESS_SELECTED"
	ReasonUnsupportedCity       Reason = "UNSUPPORTED_CITY"
	ReasonInvalidPhone          Reason = "INVALID_PHONE"
	ReasonInvalidDigitalAddress Reason = "INVALID_DIGITAL_ADDRESS"
	ReasonPickupCenterRequired  Reason = "PICKUP_CENTER_REQUIRED"
	ReasonShippingUnresolved    Reason = "SHIPPING_UNRESOLVED"
	ReasonInvalidCouponFormat   Reason = "INVALID_COUPON_FORMAT"
	ReasonCouponPending         Reason = "COUPON_APPLY_PENDING"
	ReasonInsufficientBalance   Reason = "INSUFFICIENT_BALANCE"
	ReasonMissingPaymentField   Reason = "MISSING_PAYMENT_FIELD"
	ReasonUntrustedRedirect     Reason = "UNTRUSTED_REDIRECT"
	ReasonOrderUserMismatch     Reason = "ORDER_USER_MISMATCH"
	ReasonOrderExtractionFailed Reason = "ORDER_EXTRACTION_FAILED"
	ReasonEmptyCart             Reason = "EMPTY_CART"
	ReasonSubmitInFlight        Reason = "SUBMIT_IN_FLIGHT"
)

// FieldErrors maps a request field name to the reason it failed validation.
type FieldErrors map[string]Reason

// NewReason builds a typed error carrying a single flow-level reason.
func NewReason(code Code, reason Reason, message string) *Error {
	return New(code, message).WithDetails(map[string]any{"reason": reason})
}

// NewFieldErrors builds a validation error carrying a per-field reason map.
func NewFieldErrors(message string, fields FieldErrors) *Error {
	return New(CodeValidation, message).WithDetails(map[string]any{"fields": fields})
}

// ReasonOf extracts the flow-level reason from a typed error, if any.
func ReasonOf(err error) (Reason, bool) {
	typed := As(err)
	if typed == nil {
		return "", false
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		return "", false
	}
	reason, ok := details["reason"].(Reason)
	if !ok {
		return "", false
	}
	return reason, true
}
