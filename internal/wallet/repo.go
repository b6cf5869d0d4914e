package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasoahq/checkout-backend/pkg/db/models"
)

// Repository exposes persistence operations for wallet accounts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wallet repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUser returns the user's wallet account.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.WalletAccount, error) {
	var row models.WalletAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// DebitIfSufficient atomically subtracts amount from the balance, guarded by
// a balance check in the same statement so concurrent debits cannot
// overdraw. Returns gorm.ErrRecordNotFound when the guard fails.
func (r *Repository) DebitIfSufficient(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.WalletAccount{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
