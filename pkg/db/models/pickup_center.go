package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kasoahq/checkout-backend/pkg/enums"
)

// PickupCenter is a fixed collection point buyers can choose instead of
// dispatch delivery.
type PickupCenter struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	City         enums.City `gorm:"column:city;not null;index"`
	AddressLine  string     `gorm:"column:address_line;not null"`
	ContactPhone string     `gorm:"column:contact_phone"`
	Active       bool       `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
