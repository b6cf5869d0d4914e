package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/kasoahq/checkout-backend/pkg/types"
)

// BackendTotals are authoritative amounts reported by a coupon re-evaluation.
// When TotalAmount is present it is used verbatim for the total; subtotal and
// discount likewise prefer the backend-reported value when present.
type BackendTotals struct {
	Subtotal    *decimal.Decimal `json:"subtotal"`
	Discount    *decimal.Decimal `json:"discount"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
}

// Inputs are everything a pricing snapshot depends on. Recompute on every
// change to any of them; a snapshot is never cached across a coupon removal
// or shipping-fee change.
type Inputs struct {
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	ShippingFee   decimal.Decimal
	BackendTotals *BackendTotals
}

// Snapshot is the priced view of the checkout shown to the buyer and carried
// into the order draft.
type Snapshot struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total"`
	Levies      LevyBreakdown   `json:"levies"`
}

// Compute builds a pricing snapshot. Without backend totals the total is
// round2(max(0, subtotal - discount) + shippingFee).
func Compute(in Inputs) Snapshot {
	subtotal := in.Subtotal
	discount := in.Discount

	var total decimal.Decimal
	if in.BackendTotals != nil && in.BackendTotals.TotalAmount != nil {
		total = *in.BackendTotals.TotalAmount
		if in.BackendTotals.Subtotal != nil {
			subtotal = *in.BackendTotals.Subtotal
		}
		if in.BackendTotals.Discount != nil {
			discount = *in.BackendTotals.Discount
		}
	} else {
		total = types.ClampNonNegative(subtotal.Sub(discount)).Add(in.ShippingFee)
	}

	total = types.Round2(total)
	return Snapshot{
		Subtotal:    types.Round2(subtotal),
		Discount:    types.Round2(discount),
		ShippingFee: types.Round2(in.ShippingFee),
		Total:       total,
		Levies:      ComputeLevies(total),
	}
}

// Ghana statutory levy rates. The breakdown is informational: totals already
// include these amounts, so they are never added on top.
var (
	rateVAT     = decimal.RequireFromString("0.15")
	rateNHIL    = decimal.RequireFromString("0.025")
	rateGETFund = decimal.RequireFromString("0.025")
	rateCOVID   = decimal.RequireFromString("0.01")
)

// LevyBreakdown itemizes the tax components inside a gross total.
type LevyBreakdown struct {
	VAT     decimal.Decimal `json:"vat"`
	NHIL    decimal.Decimal `json:"nhil"`
	GETFund decimal.Decimal `json:"getfund"`
	COVID   decimal.Decimal `json:"covid_levy"`
}

// ComputeLevies derives the inclusive levy portions of a gross total.
func ComputeLevies(total decimal.Decimal) LevyBreakdown {
	one := decimal.NewFromInt(1)
	combined := rateVAT.Add(rateNHIL).Add(rateGETFund).Add(rateCOVID)
	base := total.Div(one.Add(combined))

	return LevyBreakdown{
		VAT:     types.Round2(base.Mul(rateVAT)),
		NHIL:    types.Round2(base.Mul(rateNHIL)),
		GETFund: types.Round2(base.Mul(rateGETFund)),
		COVID:   types.Round2(base.Mul(rateCOVID)),
	}
}
