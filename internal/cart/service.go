package cart

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasoahq/checkout-backend/pkg/db/models"
	"github.com/kasoahq/checkout-backend/pkg/errors"
	"github.com/kasoahq/checkout-backend/pkg/types"
)

// Snapshot is the read-only view of the active cart that checkout works
// from. Checkout never mutates cart contents, it only reads them and marks
// the record converted after an order is placed.
type Snapshot struct {
	CartID   uuid.UUID         `json:"cart_id"`
	Lines    []models.CartLine `json:"lines"`
	Subtotal decimal.Decimal   `json:"subtotal"`
}

// ItemCount returns the total quantity across all lines.
func (s Snapshot) ItemCount() int {
	total := 0
	for _, line := range s.Lines {
		total += line.Quantity
	}
	return total
}

// ShippableItemCount counts units that participate in shipping fees. Lines
// without a resolvable seller are skipped rather than failing the quote.
func (s Snapshot) ShippableItemCount() int {
	total := 0
	for _, line := range s.Lines {
		if line.SellerID == nil {
			continue
		}
		total += line.Quantity
	}
	return total
}

// Empty reports whether the snapshot has no purchasable lines.
func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}

// Service exposes the cart operations checkout depends on.
type Service interface {
	Active(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
	MarkConverted(ctx context.Context, cartID uuid.UUID) error
}

type cartRepo interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	MarkConverted(ctx context.Context, cartID uuid.UUID) error
}

type service struct {
	repo cartRepo
}

// NewService builds a cart service backed by the provided repository.
func NewService(repo cartRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{repo: repo}, nil
}

// Active loads the user's active cart. The subtotal is recomputed from the
// lines so a stale stored subtotal can never leak into pricing.
func (s *service) Active(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewReason(errors.CodeValidation, errors.ReasonEmptyCart, "no active cart")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load active cart")
	}
	if len(record.Items) == 0 {
		return nil, errors.NewReason(errors.CodeValidation, errors.ReasonEmptyCart, "cart is empty")
	}

	subtotal := decimal.Zero
	for _, line := range record.Items {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return &Snapshot{
		CartID:   record.ID,
		Lines:    record.Items,
		Subtotal: types.Round2(subtotal),
	}, nil
}

func (s *service) MarkConverted(ctx context.Context, cartID uuid.UUID) error {
	if err := s.repo.MarkConverted(ctx, cartID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "mark cart converted")
	}
	return nil
}
