package delivery

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasoahq/checkout-backend/pkg/db/models"
	"github.com/kasoahq/checkout-backend/pkg/enums"
)

// Repository exposes persistence operations for pickup centers and shipping
// rates.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a delivery repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListPickupCenters returns active pickup centers in the given city.
func (r *Repository) ListPickupCenters(ctx context.Context, city enums.City) ([]models.PickupCenter, error) {
	var rows []models.PickupCenter
	err := r.db.WithContext(ctx).
		Where("city = ? AND active = ?", city, true).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindPickupCenter returns an active pickup center by id.
func (r *Repository) FindPickupCenter(ctx context.Context, id uuid.UUID) (*models.PickupCenter, error) {
	var row models.PickupCenter
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindRate returns the shipping rate for a city and delivery speed.
func (r *Repository) FindRate(ctx context.Context, city enums.City, speed enums.DeliverySpeed) (*models.ShippingRate, error) {
	var row models.ShippingRate
	err := r.db.WithContext(ctx).
		Where("city = ? AND speed = ?", city, speed).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
