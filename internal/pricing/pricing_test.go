package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeLocalTotal(t *testing.T) {
	t.Parallel()

	snap := Compute(Inputs{
		Subtotal:    dec("200.00"),
		Discount:    dec("20.00"),
		ShippingFee: dec("15.00"),
	})

	assert.True(t, snap.Total.Equal(dec("195.00")), "got %s", snap.Total)
	assert.True(t, snap.Subtotal.Equal(dec("200.00")))
	assert.True(t, snap.Discount.Equal(dec("20.00")))
	assert.True(t, snap.ShippingFee.Equal(dec("15.00")))
}

func TestComputeDiscountNeverDrivesTotalNegative(t *testing.T) {
	t.Parallel()

	snap := Compute(Inputs{
		Subtotal:    dec("30.00"),
		Discount:    dec("100.00"),
		ShippingFee: dec("10.00"),
	})
	assert.True(t, snap.Total.Equal(dec("10.00")), "got %s", snap.Total)
}

func TestComputeBackendTotalsAreAuthoritative(t *testing.T) {
	t.Parallel()

	backendTotal := dec("180.00")
	backendDiscount := dec("35.00")
	snap := Compute(Inputs{
		Subtotal:    dec("200.00"),
		Discount:    dec("20.00"),
		ShippingFee: dec("15.00"),
		BackendTotals: &BackendTotals{
			Discount:    &backendDiscount,
			TotalAmount: &backendTotal,
		},
	})

	assert.True(t, snap.Total.Equal(backendTotal), "got %s", snap.Total)
	assert.True(t, snap.Discount.Equal(backendDiscount))
	// Subtotal falls back to the local value when the backend omits it.
	assert.True(t, snap.Subtotal.Equal(dec("200.00")))
}

func TestComputeBackendTotalsIgnoredWithoutTotalAmount(t *testing.T) {
	t.Parallel()

	backendDiscount := dec("35.00")
	snap := Compute(Inputs{
		Subtotal:      dec("200.00"),
		Discount:      dec("20.00"),
		ShippingFee:   dec("15.00"),
		BackendTotals: &BackendTotals{Discount: &backendDiscount},
	})

	assert.True(t, snap.Total.Equal(dec("195.00")), "got %s", snap.Total)
	assert.True(t, snap.Discount.Equal(dec("20.00")))
}

func TestComputeRoundsToTwoPlaces(t *testing.T) {
	t.Parallel()

	snap := Compute(Inputs{
		Subtotal:    dec("10.005"),
		Discount:    decimal.Zero,
		ShippingFee: decimal.Zero,
	})
	assert.Equal(t, "10.01", snap.Total.StringFixed(2))
}

func TestComputeLeviesSumInsideTotal(t *testing.T) {
	t.Parallel()

	total := dec("121.00")
	levies := ComputeLevies(total)

	sum := levies.VAT.Add(levies.NHIL).Add(levies.GETFund).Add(levies.COVID)
	assert.True(t, sum.LessThan(total), "levies %s must stay inside the total", sum)
	assert.True(t, levies.VAT.GreaterThan(levies.NHIL))
}
