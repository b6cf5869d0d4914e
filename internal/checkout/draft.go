package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasoahq/checkout-backend/internal/cart"
	"github.com/kasoahq/checkout-backend/internal/pricing"
	"github.com/kasoahq/checkout-backend/pkg/db/models"
	"github.com/kasoahq/checkout-backend/pkg/enums"
)

// OrderDraft is the payload submitted to the orders platform.
type OrderDraft struct {
	UserID         string               `json:"user_id"`
	Items          []DraftItem          `json:"items"`
	DeliveryMethod enums.DeliveryMethod `json:"delivery_method"`
	DeliverySpeed  enums.DeliverySpeed  `json:"delivery_speed,omitempty"`
	PickupCenterID *uuid.UUID           `json:"pickup_center_id,omitempty"`
	Address        *DraftAddress        `json:"address,omitempty"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method"`
	CouponCode     string               `json:"coupon_code,omitempty"`
	CouponID       *uuid.UUID           `json:"coupon_id,omitempty"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	Discount       decimal.Decimal      `json:"discount"`
	ShippingFee    decimal.Decimal      `json:"shipping_fee"`
	Total          decimal.Decimal      `json:"total"`
	PlacedAt       time.Time            `json:"placed_at"`
}

// DraftItem is one order line.
type DraftItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	SellerID  *uuid.UUID      `json:"seller_id,omitempty"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DraftAddress is the delivery address snapshot frozen into the order.
type DraftAddress struct {
	FullName       string     `json:"full_name"`
	StreetAddress  string     `json:"street_address"`
	Area           string     `json:"area"`
	Landmark       string     `json:"landmark,omitempty"`
	City           enums.City `json:"city"`
	Region         string     `json:"region"`
	ContactPhone   string     `json:"contact_phone"`
	DigitalAddress *string    `json:"digital_address,omitempty"`
}

// buildDraft freezes the session, cart, and pricing into an order draft.
func buildDraft(session *Session, snap *cart.Snapshot, addr *models.Address, priced pricing.Snapshot) OrderDraft {
	draft := OrderDraft{
		UserID:         session.UserID.String(),
		DeliveryMethod: session.Delivery.Method,
		PaymentMethod:  session.PaymentMethod,
		Subtotal:       priced.Subtotal,
		Discount:       priced.Discount,
		ShippingFee:    priced.ShippingFee,
		Total:          priced.Total,
		PlacedAt:       time.Now().UTC(),
	}

	for _, line := range snap.Lines {
		draft.Items = append(draft.Items, DraftItem{
			ProductID: line.ProductID,
			SellerID:  line.SellerID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	switch session.Delivery.Method {
	case enums.DeliveryMethodDispatch:
		draft.DeliverySpeed = session.Delivery.Speed
	case enums.DeliveryMethodPickupCenter:
		draft.PickupCenterID = session.Delivery.PickupCenterID
	}

	if addr != nil {
		draft.Address = &DraftAddress{
			FullName:       addr.FullName,
			StreetAddress:  addr.StreetAddress,
			Area:           addr.Area,
			Landmark:       addr.Landmark,
			City:           addr.City,
			Region:         addr.Region,
			ContactPhone:   addr.ContactPhone,
			DigitalAddress: addr.DigitalAddress,
		}
	}

	if session.Coupon != nil {
		draft.CouponCode = session.Coupon.Code
		id := session.Coupon.CouponID
		draft.CouponID = &id
	}
	return draft
}
