package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kasoahq/checkout-backend/pkg/db/models"
	"github.com/kasoahq/checkout-backend/pkg/errors"
)

type stubCartRepo struct {
	record    *models.CartRecord
	converted []uuid.UUID
}

func (s *stubCartRepo) FindActiveByUser(_ context.Context, _ uuid.UUID) (*models.CartRecord, error) {
	if s.record == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.record, nil
}

func (s *stubCartRepo) MarkConverted(_ context.Context, cartID uuid.UUID) error {
	s.converted = append(s.converted, cartID)
	return nil
}

func line(qty int, unitPrice string, withSeller bool) models.CartLine {
	l := models.CartLine{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(unitPrice),
	}
	if withSeller {
		sellerID := uuid.New()
		l.SellerID = &sellerID
	}
	return l
}

func TestActiveRecomputesSubtotalFromLines(t *testing.T) {
	repo := &stubCartRepo{record: &models.CartRecord{
		ID: uuid.New(),
		// Stored subtotal is deliberately wrong.
		Subtotal: decimal.RequireFromString("999"),
		Items: []models.CartLine{
			line(2, "50.00", true),
			line(1, "100.00", true),
		},
	}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	snap, err := svc.Active(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, snap.Subtotal.Equal(decimal.RequireFromString("200")), "got %s", snap.Subtotal)
	assert.Equal(t, 3, snap.ItemCount())
}

func TestActiveEmptyCartYieldsTypedError(t *testing.T) {
	svc, err := NewService(&stubCartRepo{})
	require.NoError(t, err)

	_, err = svc.Active(context.Background(), uuid.New())
	require.Error(t, err)

	reason, ok := errors.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ReasonEmptyCart, reason)
}

func TestShippableItemCountSkipsLinesWithoutSeller(t *testing.T) {
	snap := Snapshot{Lines: []models.CartLine{
		line(2, "10.00", true),
		line(5, "10.00", false),
		line(1, "10.00", true),
	}}

	assert.Equal(t, 8, snap.ItemCount())
	assert.Equal(t, 3, snap.ShippableItemCount())
}
