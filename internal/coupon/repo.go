package coupon

import (
	"context"

	"gorm.io/gorm"

	"github.com/kasoahq/checkout-backend/pkg/db/models"
)

// Repository exposes persistence operations for coupons.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a coupon repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByCode returns the coupon with the given normalized code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var row models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
