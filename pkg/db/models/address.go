package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kasoahq/checkout-backend/pkg/enums"
)

// Address is a saved delivery address in the buyer's address book.
type Address struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	FullName       string     `gorm:"column:full_name;not null"`
	StreetAddress  string     `gorm:"column:street_address;not null"`
	Area           string     `gorm:"column:area;not null"`
	Landmark       string     `gorm:"column:landmark"`
	City           enums.City `gorm:"column:city;not null"`
	Region         string     `gorm:"column:region;not null"`
	ContactPhone   string     `gorm:"column:contact_phone;not null"`
	DigitalAddress *string    `gorm:"column:digital_address"`
	IsDefault      bool       `gorm:"column:is_default;not null;default:false"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
