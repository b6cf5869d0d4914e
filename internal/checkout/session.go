package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/kasoahq/checkout-backend/internal/coupon"
	"github.com/kasoahq/checkout-backend/internal/delivery"
	"github.com/kasoahq/checkout-backend/internal/pricing"
	"github.com/kasoahq/checkout-backend/pkg/enums"
)

// Session is the checkout aggregate: every choice the buyer has made so far,
// keyed by user. It is the single owner of checkout state; collaborators
// read from it and write back through the service, never around it.
type Session struct {
	UserID        uuid.UUID              `json:"user_id"`
	State         enums.CheckoutState    `json:"state"`
	AddressID     *uuid.UUID             `json:"address_id"`
	Delivery      delivery.Plan          `json:"delivery"`
	Coupon        *coupon.Applied        `json:"coupon"`
	BackendTotals *pricing.BackendTotals `json:"backend_totals"`
	PaymentMethod enums.PaymentMethod    `json:"payment_method"`
	Warnings      []string               `json:"warnings"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// NewSession returns the initial checkout state for a user.
func NewSession(userID uuid.UUID) *Session {
	return &Session{
		UserID:        userID,
		State:         enums.CheckoutStateIdle,
		Delivery:      delivery.NewPlan(),
		PaymentMethod: enums.PaymentMethodOnDelivery,
	}
}

// ClearCoupon drops the applied coupon and the backend totals together.
// The two must never disagree about whether a coupon is in effect.
func (s *Session) ClearCoupon() {
	s.Coupon = nil
	s.BackendTotals = nil
}

// SetCoupon replaces any active coupon. Applying over an existing coupon
// behaves as remove-then-apply.
func (s *Session) SetCoupon(applied *coupon.Applied, totals *pricing.BackendTotals) {
	s.ClearCoupon()
	s.Coupon = applied
	s.BackendTotals = totals
}

// AddWarning records a transient, non-blocking message for the client.
func (s *Session) AddWarning(message string) {
	s.Warnings = append(s.Warnings, message)
}

// ClearWarnings drops the pending transient messages after they have been
// surfaced once.
func (s *Session) ClearWarnings() {
	s.Warnings = nil
}
