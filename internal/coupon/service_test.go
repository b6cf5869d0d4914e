package coupon

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kasoahq/checkout-backend/internal/cart"
	"github.com/kasoahq/checkout-backend/pkg/db/models"
	"github.com/kasoahq/checkout-backend/pkg/enums"
	"github.com/kasoahq/checkout-backend/pkg/errors"
)

type stubCouponRepo struct {
	byCode map[string]*models.Coupon
}

func (s *stubCouponRepo) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	row, ok := s.byCode[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func newCouponService(t *testing.T, rows ...*models.Coupon) Service {
	t.Helper()
	byCode := map[string]*models.Coupon{}
	for _, row := range rows {
		byCode[row.Code] = row
	}
	svc, err := NewService(&stubCouponRepo{byCode: byCode})
	require.NoError(t, err)
	return svc
}

func snapshotWithSubtotal(subtotal string) cart.Snapshot {
	sellerID := uuid.New()
	return cart.Snapshot{
		CartID:   uuid.New(),
		Subtotal: decimal.RequireFromString(subtotal),
		Lines: []models.CartLine{
			{ID: uuid.New(), ProductID: uuid.New(), SellerID: &sellerID, Quantity: 1},
		},
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SAVE10", Normalize("  save-10 "))
	assert.Equal(t, "SAVE10", Normalize("SAVE10"))
	assert.Equal(t, "", Normalize("  --- "))
	assert.Len(t, Normalize(strings.Repeat("A", 80)), maxCodeLength)
}

func TestApplyPercentageCoupon(t *testing.T) {
	svc := newCouponService(t, &models.Coupon{
		ID:            uuid.New(),
		BatchID:       uuid.New(),
		Code:          "SAVE10",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.RequireFromString("10"),
		Active:        true,
	})

	applied, err := svc.Apply(context.Background(), " save-10 ", snapshotWithSubtotal("200.00"))
	require.NoError(t, err)

	assert.True(t, applied.DiscountAmount.Equal(decimal.RequireFromString("20")), "got %s", applied.DiscountAmount)
	assert.Equal(t, enums.DiscountTypePercentage, applied.DiscountType)
	assert.Contains(t, applied.Message, "10% off")
	assert.Contains(t, applied.Message, "GHS 20.00")
}

func TestApplyReturnsAuthoritativeTotals(t *testing.T) {
	svc := newCouponService(t, &models.Coupon{
		ID:            uuid.New(),
		Code:          "SAVE10",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.RequireFromString("10"),
		Active:        true,
	})

	applied, err := svc.Apply(context.Background(), "SAVE10", snapshotWithSubtotal("200.00"))
	require.NoError(t, err)

	require.NotNil(t, applied.Totals)
	require.NotNil(t, applied.Totals.Subtotal)
	require.NotNil(t, applied.Totals.Discount)
	assert.True(t, applied.Totals.Subtotal.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, applied.Totals.Discount.Equal(decimal.RequireFromString("20.00")))
	// The amount due is completed downstream once the shipping fee is known.
	assert.Nil(t, applied.Totals.TotalAmount)
}

func TestApplyFixedCouponCappedAtSubtotal(t *testing.T) {
	svc := newCouponService(t, &models.Coupon{
		ID:            uuid.New(),
		Code:          "FLAT50",
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.RequireFromString("50"),
		Active:        true,
	})

	applied, err := svc.Apply(context.Background(), "FLAT50", snapshotWithSubtotal("30.00"))
	require.NoError(t, err)

	assert.True(t, applied.DiscountAmount.Equal(decimal.RequireFromString("30")))
	assert.Contains(t, applied.Message, "GHS 30.00 off")
	assert.NotContains(t, applied.Message, "%")
}

func TestApplyEmptyCodeFailsWithoutLookup(t *testing.T) {
	svc := newCouponService(t)

	_, err := svc.Apply(context.Background(), "  !!!  ", snapshotWithSubtotal("100.00"))
	require.Error(t, err)

	reason, ok := errors.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ReasonInvalidCouponFormat, reason)
}

func TestApplyExpiredCoupon(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	svc := newCouponService(t, &models.Coupon{
		ID:            uuid.New(),
		Code:          "OLD",
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.RequireFromString("5"),
		Active:        true,
		ValidTo:       &expired,
	})

	_, err := svc.Apply(context.Background(), "OLD", snapshotWithSubtotal("100.00"))
	require.Error(t, err)

	typed := errors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, errors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Message(), "expired")
}

func TestApplyMinOrderValue(t *testing.T) {
	svc := newCouponService(t, &models.Coupon{
		ID:            uuid.New(),
		Code:          "BIG",
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.RequireFromString("20"),
		MinOrderValue: decimal.RequireFromString("150"),
		Active:        true,
	})

	_, err := svc.Apply(context.Background(), "BIG", snapshotWithSubtotal("100.00"))
	require.Error(t, err)

	_, err = svc.Apply(context.Background(), "BIG", snapshotWithSubtotal("150.00"))
	require.NoError(t, err)
}

func TestApplyScopedCoupon(t *testing.T) {
	sellerID := uuid.New()
	parentCat := uuid.New()
	snap := cart.Snapshot{
		CartID:   uuid.New(),
		Subtotal: decimal.RequireFromString("100.00"),
		Lines: []models.CartLine{
			{ID: uuid.New(), ProductID: uuid.New(), SellerID: &sellerID, ParentCategoryID: &parentCat, Quantity: 1},
		},
	}

	inScope := newCouponService(t, &models.Coupon{
		ID:            uuid.New(),
		Code:          "CAT",
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.RequireFromString("10"),
		Active:        true,
		CategoryIDs:   []uuid.UUID{parentCat},
	})
	_, err := inScope.Apply(context.Background(), "CAT", snap)
	require.NoError(t, err)

	outOfScope := newCouponService(t, &models.Coupon{
		ID:            uuid.New(),
		Code:          "CAT",
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.RequireFromString("10"),
		Active:        true,
		CategoryIDs:   []uuid.UUID{uuid.New()},
	})
	_, err = outOfScope.Apply(context.Background(), "CAT", snap)
	require.Error(t, err)
	assert.Contains(t, errors.As(err).Message(), "does not apply")
}
