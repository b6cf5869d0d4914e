package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasoahq/checkout-backend/pkg/enums"
)

// ShippingRate prices dispatch delivery for a city and speed: a base fee plus
// an increment per shippable item.
type ShippingRate struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	City             enums.City          `gorm:"column:city;not null;uniqueIndex:idx_shipping_rates_city_speed"`
	Speed            enums.DeliverySpeed `gorm:"column:speed;not null;uniqueIndex:idx_shipping_rates_city_speed"`
	BaseFee          decimal.Decimal     `gorm:"column:base_fee;type:numeric(12,2);not null"`
	PerItemFee       decimal.Decimal     `gorm:"column:per_item_fee;type:numeric(12,2);not null;default:0"`
	DeliveryEstimate string              `gorm:"column:delivery_estimate"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
