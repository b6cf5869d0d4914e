package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasoahq/checkout-backend/internal/address"
	"github.com/kasoahq/checkout-backend/internal/cart"
	"github.com/kasoahq/checkout-backend/internal/coupon"
	"github.com/kasoahq/checkout-backend/internal/delivery"
	"github.com/kasoahq/checkout-backend/internal/payment"
	"github.com/kasoahq/checkout-backend/internal/pricing"
	"github.com/kasoahq/checkout-backend/pkg/config"
	"github.com/kasoahq/checkout-backend/pkg/db/models"
	"github.com/kasoahq/checkout-backend/pkg/enums"
	"github.com/kasoahq/checkout-backend/pkg/errors"
	"github.com/kasoahq/checkout-backend/pkg/logger"
	"github.com/kasoahq/checkout-backend/pkg/metrics"
	"github.com/kasoahq/checkout-backend/pkg/types"
)

const (
	lockScopeCoupon = "coupon"
	lockScopeSubmit = "submit"
)

// View is the fully priced read model of a checkout session returned to the
// client on every mutation.
type View struct {
	Session  *Session         `json:"session"`
	Cart     *cart.Snapshot   `json:"cart"`
	Address  *models.Address  `json:"address"`
	Pricing  pricing.Snapshot `json:"pricing"`
	Balance  decimal.Decimal  `json:"wallet_balance"`
	Warnings []string         `json:"warnings"`
}

// DeliveryInput selects a delivery method and its parameters.
type DeliveryInput struct {
	Method         enums.DeliveryMethod `json:"method"`
	Speed          enums.DeliverySpeed  `json:"speed"`
	PickupCenterID *uuid.UUID           `json:"pickup_center_id"`
}

// Service orchestrates the checkout flow over the session aggregate.
type Service interface {
	View(ctx context.Context, userID uuid.UUID) (*View, error)
	SetAddress(ctx context.Context, userID uuid.UUID, sel address.Selection) (*View, error)
	SetDelivery(ctx context.Context, userID uuid.UUID, in DeliveryInput) (*View, error)
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*View, error)
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*View, error)
	SetPaymentMethod(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*View, error)
	Submit(ctx context.Context, userID uuid.UUID, in SubmitInput) (*SubmitResult, error)
}

type orderCreator interface {
	CreateOrder(ctx context.Context, authToken, idempotencyKey string, draft any) (map[string]any, error)
}

type walletAccess interface {
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error
}

type locker interface {
	LockKey(scope, userID string) string
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

type service struct {
	store      *Store
	addresses  address.Service
	carts      cart.Service
	deliveries delivery.Service
	coupons    coupon.Service
	gate       payment.Gate
	wallet     walletAccess
	orders     orderCreator
	locks      locker
	cfg        config.CheckoutConfig
	metrics    *metrics.CheckoutMetrics
	logg       *logger.Logger
}

// Deps bundles the collaborators the checkout service is wired from.
type Deps struct {
	Store      *Store
	Addresses  address.Service
	Carts      cart.Service
	Deliveries delivery.Service
	Coupons    coupon.Service
	Gate       payment.Gate
	Wallet     walletAccess
	Orders     orderCreator
	Locks      locker
	Config     config.CheckoutConfig
	Metrics    *metrics.CheckoutMetrics
	Logger     *logger.Logger
}

// NewService builds the checkout orchestrator.
func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Store == nil:
		return nil, fmt.Errorf("session store required")
	case deps.Addresses == nil:
		return nil, fmt.Errorf("address service required")
	case deps.Carts == nil:
		return nil, fmt.Errorf("cart service required")
	case deps.Deliveries == nil:
		return nil, fmt.Errorf("delivery service required")
	case deps.Coupons == nil:
		return nil, fmt.Errorf("coupon service required")
	case deps.Gate == nil:
		return nil, fmt.Errorf("payment gate required")
	case deps.Wallet == nil:
		return nil, fmt.Errorf("wallet service required")
	case deps.Orders == nil:
		return nil, fmt.Errorf("orders client required")
	case deps.Locks == nil:
		return nil, fmt.Errorf("lock provider required")
	case deps.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:      deps.Store,
		addresses:  deps.Addresses,
		carts:      deps.Carts,
		deliveries: deps.Deliveries,
		coupons:    deps.Coupons,
		gate:       deps.Gate,
		wallet:     deps.Wallet,
		orders:     deps.Orders,
		locks:      deps.Locks,
		cfg:        deps.Config,
		metrics:    deps.Metrics,
		logg:       deps.Logger,
	}, nil
}

// View loads the session and prices it against the live cart. A session with
// no chosen address picks up the buyer's preferred saved address.
func (s *service) View(ctx context.Context, userID uuid.UUID) (*View, error) {
	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, session)
}

// SetAddress resolves the selection and rebinds the session to it. The
// shipping quote is refreshed because the buyer city may have changed.
func (s *service) SetAddress(ctx context.Context, userID uuid.UUID, sel address.Selection) (*View, error) {
	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.addresses.Resolve(ctx, userID, sel)
	if err != nil {
		return nil, err
	}
	session.AddressID = &resolved.ID
	session.Delivery.Quote = nil

	return s.finish(ctx, session)
}

// SetDelivery applies a delivery method change or reparameterization.
func (s *service) SetDelivery(ctx context.Context, userID uuid.UUID, in DeliveryInput) (*View, error) {
	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !in.Method.IsValid() {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("unknown delivery method %q", in.Method))
	}
	// An empty speed means "keep the current one"; anything else must parse.
	if in.Speed != "" && !in.Speed.IsValid() {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("unknown delivery speed %q", in.Speed))
	}
	session.Delivery.SwitchMethod(in.Method)

	switch in.Method {
	case enums.DeliveryMethodDispatch:
		if in.Speed != "" {
			session.Delivery.SetSpeed(in.Speed)
		}
	case enums.DeliveryMethodPickupCenter:
		if in.PickupCenterID != nil {
			addr, err := s.selectedAddress(ctx, session)
			if err != nil {
				return nil, err
			}
			if addr == nil {
				return nil, errors.NewReason(errors.CodeValidation, errors.ReasonNoAddressSelected, "select an address before choosing a pickup center")
			}
			center, err := s.deliveries.ResolvePickupCenter(ctx, *in.PickupCenterID, addr.City)
			if err != nil {
				return nil, err
			}
			session.Delivery.PickupCenterID = &center.ID
		}
	}

	return s.finish(ctx, session)
}

// ApplyCoupon evaluates a code against the live cart. Application is not
// re-entrant: a second apply while one is pending is rejected outright.
func (s *service) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*View, error) {
	lockKey := s.locks.LockKey(lockScopeCoupon, userID.String())
	acquired, err := s.locks.AcquireLock(ctx, lockKey, s.cfg.CouponLockTTL)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "acquire coupon lock")
	}
	if !acquired {
		return nil, errors.NewReason(errors.CodeConflict, errors.ReasonCouponPending, "a coupon application is already in progress")
	}
	defer func() {
		if releaseErr := s.locks.ReleaseLock(ctx, lockKey); releaseErr != nil {
			s.logg.Error(ctx, "release coupon lock", releaseErr)
		}
	}()

	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap, err := s.carts.Active(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Applying over an active coupon behaves as remove-then-apply.
	session.ClearCoupon()

	applied, err := s.coupons.Apply(ctx, code, *snap)
	if err != nil {
		s.metrics.IncCouponApply("rejected")
		// The cleared coupon state must survive the rejection.
		if saveErr := s.store.Save(ctx, session); saveErr != nil {
			return nil, saveErr
		}
		return nil, err
	}

	session.SetCoupon(applied, applied.Totals)
	s.metrics.IncCouponApply("applied")
	return s.finish(ctx, session)
}

// RemoveCoupon clears the active coupon, discount and backend totals in one
// step.
func (s *service) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*View, error) {
	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.ClearCoupon()
	return s.finish(ctx, session)
}

// SetPaymentMethod validates and records the buyer's payment choice.
func (s *service) SetPaymentMethod(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*View, error) {
	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	view, err := s.buildView(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := s.gate.CheckMethod(ctx, userID, method, view.Pricing.Total); err != nil {
		return nil, err
	}

	session.PaymentMethod = method
	return s.finish(ctx, session)
}

// finish reprices the session, persists it, and returns the view.
func (s *service) finish(ctx context.Context, session *Session) (*View, error) {
	view, err := s.buildView(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return view, nil
}

// buildView assembles the priced view: live cart, selected address, a fresh
// or degraded shipping quote, and the pricing snapshot.
func (s *service) buildView(ctx context.Context, session *Session) (*View, error) {
	session.ClearWarnings()

	snap, err := s.carts.Active(ctx, session.UserID)
	if err != nil {
		if reason, ok := errors.ReasonOf(err); ok && reason == errors.ReasonEmptyCart {
			snap = &cart.Snapshot{Subtotal: decimal.Zero}
		} else {
			return nil, err
		}
	}

	if session.AddressID == nil {
		preferred, err := s.addresses.Preferred(ctx, session.UserID)
		if err != nil {
			return nil, err
		}
		if preferred != nil {
			session.AddressID = &preferred.ID
		}
	}

	addr, err := s.selectedAddress(ctx, session)
	if err != nil {
		return nil, err
	}

	s.refreshQuote(ctx, session, snap, addr)

	discount := decimal.Zero
	if session.Coupon != nil {
		discount = session.Coupon.DiscountAmount
	}

	fee := decimal.Zero
	if addr != nil {
		currentKey := delivery.QuoteConfig{City: addr.City, Speed: session.Delivery.Speed, Lines: snap.Lines}.Key()
		fee = session.Delivery.Fee(currentKey)
	}

	priced := pricing.Compute(pricing.Inputs{
		Subtotal:      snap.Subtotal,
		Discount:      discount,
		ShippingFee:   fee,
		BackendTotals: composeAuthoritativeTotals(session.BackendTotals, fee),
	})

	balance, err := s.wallet.Balance(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	return &View{
		Session:  session,
		Cart:     snap,
		Address:  addr,
		Pricing:  priced,
		Balance:  balance,
		Warnings: session.Warnings,
	}, nil
}

// composeAuthoritativeTotals finishes a coupon evaluation's totals with the
// current shipping fee. The amount due is recomposed on every view build, so
// a delivery change after the coupon was applied can never serve a stale
// total.
func composeAuthoritativeTotals(totals *pricing.BackendTotals, fee decimal.Decimal) *pricing.BackendTotals {
	if totals == nil || totals.Subtotal == nil || totals.Discount == nil {
		return totals
	}
	due := types.Round2(types.ClampNonNegative(totals.Subtotal.Sub(*totals.Discount)).Add(fee))
	return &pricing.BackendTotals{
		Subtotal:    totals.Subtotal,
		Discount:    totals.Discount,
		TotalAmount: &due,
	}
}

// refreshQuote recomputes the dispatch quote when the stored one no longer
// matches the current configuration. Quote failures degrade to a zero fee
// with a transient warning rather than blocking the view.
func (s *service) refreshQuote(ctx context.Context, session *Session, snap *cart.Snapshot, addr *models.Address) {
	if session.Delivery.Method != enums.DeliveryMethodDispatch || addr == nil || snap.ShippableItemCount() == 0 {
		return
	}

	cfg := delivery.QuoteConfig{City: addr.City, Speed: session.Delivery.Speed, Lines: snap.Lines}
	key := cfg.Key()
	if session.Delivery.Quote != nil && session.Delivery.Quote.ConfigKey == key {
		return
	}

	quote, err := s.deliveries.Quote(ctx, cfg)
	if err != nil {
		session.Delivery.Quote = nil
		session.AddWarning("shipping fee unavailable, showing zero until it resolves")
		s.metrics.IncQuoteFailure()
		s.logg.Warn(ctx, "shipping quote failed")
		return
	}
	// A configuration change between request and response makes the result
	// stale. Last write wins by key, not by completion order.
	if quote.ConfigKey != key {
		return
	}
	session.Delivery.Quote = quote
}

func (s *service) selectedAddress(ctx context.Context, session *Session) (*models.Address, error) {
	if session.AddressID == nil {
		return nil, nil
	}
	addr, err := s.addresses.Get(ctx, session.UserID, *session.AddressID)
	if err != nil {
		if typed := errors.As(err); typed != nil && typed.Code() == errors.CodeNotFound {
			// The selected address was deleted out from under the session.
			session.AddressID = nil
			return nil, nil
		}
		return nil, err
	}
	return addr, nil
}

