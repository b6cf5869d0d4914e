package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasoahq/checkout-backend/pkg/enums"
	"github.com/kasoahq/checkout-backend/pkg/errors"
	"github.com/kasoahq/checkout-backend/pkg/paystack"
)

// Redirect is a validated payment hand-off: safe to send to the client.
type Redirect struct {
	AuthorizationURL string          `json:"authorization_url"`
	OrderID          string          `json:"order_id"`
	Amount           decimal.Decimal `json:"amount"`
	Email            string          `json:"email"`
}

// Gate guards every path into a payment: method selection against the wallet
// balance, and provider session initialization for redirect methods.
type Gate interface {
	CheckMethod(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod, total decimal.Decimal) error
	Initialize(ctx context.Context, in InitializeInput) (*Redirect, error)
}

// InitializeInput is the mandatory field set for a provider payment session.
type InitializeInput struct {
	UserID  uuid.UUID
	OrderID string
	Amount  decimal.Decimal
	Email   string
	Order   map[string]any
}

type balanceReader interface {
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

type paymentInitializer interface {
	Initialize(ctx context.Context, req paystack.InitializeRequest) (map[string]any, error)
	TrustedHost() string
}

type gate struct {
	wallet   balanceReader
	provider paymentInitializer
}

// NewGate builds a payment gate over the wallet and the payment provider.
func NewGate(wallet balanceReader, provider paymentInitializer) (Gate, error) {
	if wallet == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	if provider == nil {
		return nil, fmt.Errorf("payment provider required")
	}
	return &gate{wallet: wallet, provider: provider}, nil
}

// CheckMethod re-validates the selected payment method against the current
// total. Credit balance selections can be invalidated by any total change,
// so this runs on every recomputation, not just at selection time.
func (g *gate) CheckMethod(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod, total decimal.Decimal) error {
	if !method.IsValid() {
		return errors.New(errors.CodeValidation, fmt.Sprintf("unknown payment method %q", method))
	}
	if method != enums.PaymentMethodCreditBalance {
		return nil
	}
	balance, err := g.wallet.Balance(ctx, userID)
	if err != nil {
		return err
	}
	if balance.LessThan(total) {
		return errors.NewReason(errors.CodeValidation, errors.ReasonInsufficientBalance, "wallet balance below order total")
	}
	return nil
}

// Initialize opens a provider payment session for a freshly created order.
// All three provider fields are mandatory before any network call, the order
// must belong to the authenticated user, and the returned redirect URL must
// resolve to the provider's own domain.
func (g *gate) Initialize(ctx context.Context, in InitializeInput) (*Redirect, error) {
	if missing := missingFields(in); len(missing) > 0 {
		return nil, errors.NewReason(errors.CodeStateConflict, errors.ReasonMissingPaymentField,
			fmt.Sprintf("payment fields missing: %s", strings.Join(missing, ", ")))
	}

	if owner, ok := ExtractOrderUser(in.Order); ok && owner != in.UserID.String() {
		return nil, errors.NewReason(errors.CodeForbidden, errors.ReasonOrderUserMismatch, "order belongs to a different user")
	}

	resp, err := g.provider.Initialize(ctx, paystack.InitializeRequest{
		OrderID:   in.OrderID,
		Amount:    in.Amount,
		Email:     in.Email,
		Reference: fmt.Sprintf("checkout-%s", in.OrderID),
	})
	if err != nil {
		return nil, err
	}

	redirectURL, err := ExtractRedirectURL(resp)
	if err != nil {
		return nil, err
	}
	if err := ValidateRedirectURL(redirectURL, g.provider.TrustedHost()); err != nil {
		return nil, err
	}

	return &Redirect{
		AuthorizationURL: redirectURL,
		OrderID:          in.OrderID,
		Amount:           in.Amount,
		Email:            in.Email,
	}, nil
}

func missingFields(in InitializeInput) []string {
	var missing []string
	if strings.TrimSpace(in.OrderID) == "" {
		missing = append(missing, "order_id")
	}
	if !in.Amount.IsPositive() {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	return missing
}

// orderUserPaths are the shapes an order's owning user has been seen under.
var orderUserPaths = [][]string{
	{"user", "id"},
	{"user", "_id"},
	{"user"},
	{"user_id"},
	{"userId"},
	{"data", "user", "id"},
	{"data", "user"},
	{"customer", "id"},
}

// ExtractOrderUser finds the user the order is attributed to, if the
// response names one. Callers treat a mismatch as fatal and a missing user
// as unverifiable-but-allowed.
func ExtractOrderUser(order map[string]any) (string, bool) {
	for _, path := range orderUserPaths {
		value, ok := dig(order, path)
		if !ok {
			continue
		}
		if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}
