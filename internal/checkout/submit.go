package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasoahq/checkout-backend/internal/delivery"
	"github.com/kasoahq/checkout-backend/internal/payment"
	"github.com/kasoahq/checkout-backend/pkg/enums"
	"github.com/kasoahq/checkout-backend/pkg/errors"
)

// SubmitInput carries what only the request can supply: the caller's auth
// token forwarded to the orders platform and the email for payment sessions.
type SubmitInput struct {
	AuthToken string
	Email     string
}

// Confirmation is the terminal payload for non-redirect payment methods.
type Confirmation struct {
	OrderID        string               `json:"order_id"`
	OrderNumber    string               `json:"order_number,omitempty"`
	Total          decimal.Decimal      `json:"total"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	Discount       decimal.Decimal      `json:"discount"`
	ShippingFee    decimal.Decimal      `json:"shipping_fee"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method"`
	DeliveryMethod enums.DeliveryMethod `json:"delivery_method"`
	OrderDate      time.Time            `json:"order_date"`
}

// SubmitResult is the outcome of a submission: either a confirmation or a
// payment redirect, tagged with the state the session landed in.
type SubmitResult struct {
	State        enums.CheckoutState `json:"state"`
	Confirmation *Confirmation       `json:"confirmation,omitempty"`
	Redirect     *payment.Redirect   `json:"redirect,omitempty"`
}

// Submit drives the session through Validating and Submitting into a
// terminal state. The submit lock serializes the whole transition: no two
// submissions for the same user ever run concurrently.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, in SubmitInput) (*SubmitResult, error) {
	lockKey := s.locks.LockKey(lockScopeSubmit, userID.String())
	acquired, err := s.locks.AcquireLock(ctx, lockKey, s.cfg.SubmitLockTTL)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "acquire submit lock")
	}
	if !acquired {
		return nil, errors.NewReason(errors.CodeConflict, errors.ReasonSubmitInFlight, "a submission is already in progress")
	}
	defer func() {
		if releaseErr := s.locks.ReleaseLock(ctx, lockKey); releaseErr != nil {
			s.logg.Error(ctx, "release submit lock", releaseErr)
		}
	}()

	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithCheckoutStage(ctx, "validating")
	session.State = enums.CheckoutStateValidating

	view, err := s.buildView(ctx, session)
	if err != nil {
		return nil, s.block(ctx, session, err)
	}
	if err := s.validate(ctx, session, view); err != nil {
		s.metrics.IncSubmission("blocked")
		return nil, s.block(ctx, session, err)
	}

	ctx = s.logg.WithCheckoutStage(ctx, "submitting")
	session.State = enums.CheckoutStateSubmitting
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	draft := buildDraft(session, view.Cart, view.Address, view.Pricing)
	resp, err := s.orders.CreateOrder(ctx, in.AuthToken, uuid.NewString(), draft)
	if err != nil {
		s.metrics.IncSubmission("failed")
		return nil, s.block(ctx, session, err)
	}

	order, err := ExtractOrder(resp)
	if err != nil {
		// The order may exist server-side. Block without claiming failure.
		s.metrics.IncSubmission("extraction_failed")
		session.AddWarning("your order may have been placed; contact support before retrying")
		return nil, s.block(ctx, session, err)
	}

	// The order owns the cart lines now, whatever the payment branch does.
	if err := s.carts.MarkConverted(ctx, view.Cart.CartID); err != nil {
		s.logg.Error(ctx, "mark cart converted", err)
	}

	switch session.PaymentMethod {
	case enums.PaymentMethodMobileMoney:
		return s.redirectBranch(ctx, session, view, order, in)
	case enums.PaymentMethodCreditBalance:
		if err := s.wallet.Debit(ctx, userID, view.Pricing.Total); err != nil {
			// Order placed but the wallet could not cover it after all.
			session.State = enums.CheckoutStatePaymentPending
			s.metrics.IncSubmission("payment_pending")
			if saveErr := s.store.Save(ctx, session); saveErr != nil {
				s.logg.Error(ctx, "save session", saveErr)
			}
			return nil, err
		}
		return s.confirm(ctx, session, view, order)
	default:
		return s.confirm(ctx, session, view, order)
	}
}

// validate enforces every submission precondition without touching the
// network: non-empty cart, a resolved address, a submittable delivery plan,
// and a payment method the buyer can actually pay with.
func (s *service) validate(ctx context.Context, session *Session, view *View) error {
	if view.Cart == nil || view.Cart.Empty() {
		return errors.NewReason(errors.CodeValidation, errors.ReasonEmptyCart, "cart is empty")
	}
	if view.Address == nil {
		return errors.NewReason(errors.CodeValidation, errors.ReasonNoAddressSelected, "select a delivery address")
	}

	currentKey := delivery.QuoteConfig{
		City:  view.Address.City,
		Speed: session.Delivery.Speed,
		Lines: view.Cart.Lines,
	}.Key()
	if err := session.Delivery.ValidateForSubmit(currentKey); err != nil {
		return err
	}

	return s.gate.CheckMethod(ctx, session.UserID, session.PaymentMethod, view.Pricing.Total)
}

// block parks the session in Blocked and returns the causing error. Blocked
// is not terminal: the buyer corrects the input and submits again.
func (s *service) block(ctx context.Context, session *Session, cause error) error {
	session.State = enums.CheckoutStateBlocked
	if err := s.store.Save(ctx, session); err != nil {
		s.logg.Error(ctx, "save blocked session", err)
	}
	return cause
}

// redirectBranch initializes the provider payment session for mobile money.
// The order is already created: a gate failure lands in PaymentPending, and
// the caller must present it as "order placed, payment pending".
func (s *service) redirectBranch(ctx context.Context, session *Session, view *View, order *CreatedOrder, in SubmitInput) (*SubmitResult, error) {
	redirect, err := s.gate.Initialize(ctx, payment.InitializeInput{
		UserID:  session.UserID,
		OrderID: order.ID,
		Amount:  view.Pricing.Total,
		Email:   in.Email,
		Order:   order.Raw,
	})
	if err != nil {
		session.State = enums.CheckoutStatePaymentPending
		s.metrics.IncSubmission("payment_pending")
		if saveErr := s.store.Save(ctx, session); saveErr != nil {
			s.logg.Error(ctx, "save session", saveErr)
		}
		return nil, err
	}

	session.State = enums.CheckoutStateRedirectingToPayment
	s.metrics.IncSubmission("redirecting")
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return &SubmitResult{State: session.State, Redirect: redirect}, nil
}

func (s *service) confirm(ctx context.Context, session *Session, view *View, order *CreatedOrder) (*SubmitResult, error) {
	session.State = enums.CheckoutStateConfirmed
	s.metrics.IncSubmission("confirmed")
	// The order owns everything the session tracked. Dropping the session
	// puts the buyer's next checkout back at Idle.
	if err := s.store.Delete(ctx, session.UserID); err != nil {
		s.logg.Error(ctx, "delete confirmed session", err)
	}
	s.logg.Info(ctx, "order confirmed")

	return &SubmitResult{
		State: session.State,
		Confirmation: &Confirmation{
			OrderID:        order.ID,
			OrderNumber:    order.OrderNumber,
			Total:          view.Pricing.Total,
			Subtotal:       view.Pricing.Subtotal,
			Discount:       view.Pricing.Discount,
			ShippingFee:    view.Pricing.ShippingFee,
			PaymentMethod:  session.PaymentMethod,
			DeliveryMethod: session.Delivery.Method,
			OrderDate:      time.Now().UTC(),
		},
	}, nil
}
