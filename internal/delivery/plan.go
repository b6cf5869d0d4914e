package delivery

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasoahq/checkout-backend/pkg/db/models"
	"github.com/kasoahq/checkout-backend/pkg/enums"
	"github.com/kasoahq/checkout-backend/pkg/errors"
)

// Quote is a priced shipping computation tagged with the configuration key
// that produced it. A quote whose key no longer matches the current
// configuration is stale and must be treated as absent.
type Quote struct {
	ConfigKey string          `json:"config_key"`
	Fee       decimal.Decimal `json:"fee"`
	Estimate  string          `json:"estimate"`
}

// Plan captures the delivery configuration chosen during checkout.
type Plan struct {
	Method         enums.DeliveryMethod `json:"method"`
	Speed          enums.DeliverySpeed  `json:"speed"`
	PickupCenterID *uuid.UUID           `json:"pickup_center_id"`
	Quote          *Quote               `json:"quote"`
}

// NewPlan returns the initial delivery plan: dispatch at standard speed with
// no quote yet.
func NewPlan() Plan {
	return Plan{
		Method: enums.DeliveryMethodDispatch,
		Speed:  enums.DeliverySpeedStandard,
	}
}

// SwitchMethod transitions the plan to a new delivery method. Entering
// pickup_center clears any previously chosen center so the buyer must pick
// again; entering dispatch resets the speed to standard. Both transitions
// drop the quote, since it priced the old configuration.
func (p *Plan) SwitchMethod(method enums.DeliveryMethod) {
	if p.Method == method {
		return
	}
	p.Method = method
	p.Quote = nil
	switch method {
	case enums.DeliveryMethodPickupCenter:
		p.PickupCenterID = nil
	case enums.DeliveryMethodDispatch:
		p.Speed = enums.DeliverySpeedStandard
	}
}

// SetSpeed changes the dispatch speed and invalidates the quote.
func (p *Plan) SetSpeed(speed enums.DeliverySpeed) {
	if p.Speed == speed {
		return
	}
	p.Speed = speed
	p.Quote = nil
}

// Fee returns the shipping fee the plan currently carries. Pickup delivery
// and quoteless dispatch are both zero.
func (p Plan) Fee(currentKey string) decimal.Decimal {
	if p.Method != enums.DeliveryMethodDispatch {
		return decimal.Zero
	}
	if p.Quote == nil || p.Quote.ConfigKey != currentKey {
		return decimal.Zero
	}
	return p.Quote.Fee
}

// ValidateForSubmit checks that the plan can back an order right now.
// Pickup delivery needs a chosen center; dispatch needs a quote computed
// against the current configuration.
func (p Plan) ValidateForSubmit(currentKey string) error {
	switch p.Method {
	case enums.DeliveryMethodPickupCenter:
		if p.PickupCenterID == nil {
			return errors.NewReason(errors.CodeValidation, errors.ReasonPickupCenterRequired, "choose a pickup center")
		}
	case enums.DeliveryMethodDispatch:
		if p.Quote == nil || p.Quote.ConfigKey != currentKey {
			return errors.NewReason(errors.CodeValidation, errors.ReasonShippingUnresolved, "shipping fee not resolved")
		}
	default:
		return errors.New(errors.CodeValidation, fmt.Sprintf("unknown delivery method %q", p.Method))
	}
	return nil
}

// QuoteConfig is the full input set a shipping quote depends on. Two configs
// with the same key price identically.
type QuoteConfig struct {
	City  enums.City
	Speed enums.DeliverySpeed
	Lines []models.CartLine
}

// Key derives a deterministic fingerprint of the quote configuration. Only
// shippable lines participate, and line order does not matter.
func (c QuoteConfig) Key() string {
	parts := make([]string, 0, len(c.Lines))
	for _, line := range c.Lines {
		if line.SellerID == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d", line.ProductID, line.Quantity))
	}
	sort.Strings(parts)

	sum := sha256.Sum256([]byte(string(c.City) + "|" + string(c.Speed) + "|" + strings.Join(parts, ",")))
	return hex.EncodeToString(sum[:8])
}

// ShippableCount returns the number of units that contribute to the fee.
func (c QuoteConfig) ShippableCount() int {
	total := 0
	for _, line := range c.Lines {
		if line.SellerID == nil {
			continue
		}
		total += line.Quantity
	}
	return total
}
