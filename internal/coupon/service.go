package coupon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasoahq/checkout-backend/internal/cart"
	"github.com/kasoahq/checkout-backend/internal/pricing"
	"github.com/kasoahq/checkout-backend/pkg/db/models"
	"github.com/kasoahq/checkout-backend/pkg/enums"
	"github.com/kasoahq/checkout-backend/pkg/errors"
	"github.com/kasoahq/checkout-backend/pkg/types"
)

// Applied is the outcome of a successful coupon application, stored on the
// checkout session until removed or re-evaluated.
type Applied struct {
	CouponID       uuid.UUID          `json:"coupon_id"`
	BatchID        uuid.UUID          `json:"batch_id"`
	Code           string             `json:"code"`
	DiscountType   enums.DiscountType `json:"discount_type"`
	DiscountValue  decimal.Decimal    `json:"discount_value"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Message        string             `json:"message"`

	// Totals are the evaluation's authoritative subtotal and discount.
	// TotalAmount is left unset: the amount due also depends on the
	// shipping fee, which the checkout layer folds in per view.
	Totals *pricing.BackendTotals `json:"totals,omitempty"`
}

// Service evaluates coupon codes against a cart snapshot.
type Service interface {
	Apply(ctx context.Context, rawCode string, snap cart.Snapshot) (*Applied, error)
}

type couponRepo interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type service struct {
	repo couponRepo
	now  func() time.Time
}

// NewService builds a coupon service backed by the provided repository.
func NewService(repo couponRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Apply normalizes the code, loads the coupon, and evaluates eligibility
// against the cart. Every rejection is user-correctable: the caller clears
// any previously applied coupon and surfaces the message.
func (s *service) Apply(ctx context.Context, rawCode string, snap cart.Snapshot) (*Applied, error) {
	code := Normalize(rawCode)
	if code == "" {
		return nil, errors.NewReason(errors.CodeValidation, errors.ReasonInvalidCouponFormat, "enter a valid coupon code")
	}

	row, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeValidation, "coupon not found")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "look up coupon")
	}

	if reason := s.ineligible(row, snap); reason != "" {
		return nil, errors.New(errors.CodeValidation, reason)
	}

	amount := discountAmount(row, snap.Subtotal)
	subtotal := types.Round2(snap.Subtotal)
	return &Applied{
		CouponID:       row.ID,
		BatchID:        row.BatchID,
		Code:           row.Code,
		DiscountType:   row.DiscountType,
		DiscountValue:  row.DiscountValue,
		DiscountAmount: amount,
		Message:        successMessage(row, amount),
		Totals:         &pricing.BackendTotals{Subtotal: &subtotal, Discount: &amount},
	}, nil
}

// ineligible returns a user-facing message, or empty when the coupon applies.
func (s *service) ineligible(row *models.Coupon, snap cart.Snapshot) string {
	now := s.now()
	if !row.Active {
		return "coupon is no longer active"
	}
	if row.ValidFrom != nil && now.Before(*row.ValidFrom) {
		return "coupon is not active yet"
	}
	if row.ValidTo != nil && now.After(*row.ValidTo) {
		return "coupon has expired"
	}
	if snap.Subtotal.LessThan(row.MinOrderValue) {
		return fmt.Sprintf("order minimum of GHS %s not met", row.MinOrderValue.StringFixed(2))
	}

	products, categories, sellers := cartScope(snap.Lines)
	if len(row.ProductIDs) > 0 && !intersects(row.ProductIDs, products) {
		return "coupon does not apply to items in your cart"
	}
	if len(row.CategoryIDs) > 0 && !intersects(row.CategoryIDs, categories) {
		return "coupon does not apply to items in your cart"
	}
	if len(row.SellerIDs) > 0 && !intersects(row.SellerIDs, sellers) {
		return "coupon does not apply to items in your cart"
	}
	return ""
}

// cartScope collects the deduplicated product, category, and seller identity
// sets a coupon's scope is matched against. Both parent and sub categories
// of each line count.
func cartScope(lines []models.CartLine) (products, categories, sellers map[uuid.UUID]struct{}) {
	products = map[uuid.UUID]struct{}{}
	categories = map[uuid.UUID]struct{}{}
	sellers = map[uuid.UUID]struct{}{}
	for _, line := range lines {
		products[line.ProductID] = struct{}{}
		if line.ParentCategoryID != nil {
			categories[*line.ParentCategoryID] = struct{}{}
		}
		if line.SubCategoryID != nil {
			categories[*line.SubCategoryID] = struct{}{}
		}
		if line.SellerID != nil {
			sellers[*line.SellerID] = struct{}{}
		}
	}
	return products, categories, sellers
}

func intersects(scope []uuid.UUID, set map[uuid.UUID]struct{}) bool {
	for _, id := range scope {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// discountAmount computes the currency discount, never exceeding the
// subtotal.
func discountAmount(row *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch row.DiscountType {
	case enums.DiscountTypePercentage:
		amount = subtotal.Mul(row.DiscountValue).Div(decimal.NewFromInt(100))
	case enums.DiscountTypeFixed:
		amount = row.DiscountValue
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	return types.Round2(types.ClampNonNegative(amount))
}

// successMessage differs by discount type: percentage coupons report both
// the rate and the computed amount, fixed coupons only the amount.
func successMessage(row *models.Coupon, amount decimal.Decimal) string {
	switch row.DiscountType {
	case enums.DiscountTypePercentage:
		return fmt.Sprintf("%s applied: %s%% off (GHS %s)", row.Code, row.DiscountValue.String(), amount.StringFixed(2))
	default:
		return fmt.Sprintf("%s applied: GHS %s off", row.Code, amount.StringFixed(2))
	}
}
