package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one product entry in a cart. Seller and category references are
// denormalized onto the line because coupon eligibility and shipping both need
// them without joining the catalog. SellerID is nullable: upstream sync gaps
// leave lines without a resolvable seller, and those lines are excluded from
// shipping weight rather than failing checkout.
type CartLine struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID           uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	SellerID         *uuid.UUID      `gorm:"column:seller_id;type:uuid"`
	VariantID        *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	ParentCategoryID *uuid.UUID      `gorm:"column:parent_category_id;type:uuid"`
	SubCategoryID    *uuid.UUID      `gorm:"column:sub_category_id;type:uuid"`
	Quantity         int             `gorm:"column:quantity;not null"`
	UnitPrice        decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
