package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasoahq/checkout-backend/pkg/enums"
)

// Coupon holds a promotional code and its eligibility scope. Empty scope
// slices mean the coupon applies storewide.
type Coupon struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BatchID       uuid.UUID          `gorm:"column:batch_id;type:uuid;not null"`
	Code          string             `gorm:"column:code;uniqueIndex;not null"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinOrderValue decimal.Decimal    `gorm:"column:min_order_value;type:numeric(12,2);not null;default:0"`
	ValidFrom     *time.Time         `gorm:"column:valid_from"`
	ValidTo       *time.Time         `gorm:"column:valid_to"`
	Active        bool               `gorm:"column:active;not null;default:true"`
	ProductIDs    []uuid.UUID        `gorm:"column:product_ids;type:jsonb;serializer:json"`
	CategoryIDs   []uuid.UUID        `gorm:"column:category_ids;type:jsonb;serializer:json"`
	SellerIDs     []uuid.UUID        `gorm:"column:seller_ids;type:jsonb;serializer:json"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
