package pricing

import (
	"testing"

	"github.com/pgkim42/book-bean-frontend-sub000/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestDeliveryFeeBoundary(t *testing.T) {
	for subtotal := types.Money(0); subtotal < FreeShippingThreshold; subtotal += 1250 {
		assert.Equal(t, StandardDeliveryFee, DeliveryFee(subtotal), "subtotal %d", subtotal)
	}
	assert.Equal(t, StandardDeliveryFee, DeliveryFee(29999))
	for _, subtotal := range []types.Money{30000, 30001, 45000, 1_000_000} {
		assert.Equal(t, types.Money(0), DeliveryFee(subtotal), "subtotal %d", subtotal)
	}
}

func TestComputeTotalsIdentity(t *testing.T) {
	cases := []struct{ subtotal, discount types.Money }{
		{0, 0}, {25000, 0}, {25000, 2000}, {30000, 0}, {30000, 30000}, {50000, 5000}, {12345, 678},
	}
	for _, tc := range cases {
		totals := ComputeTotals(tc.subtotal, tc.discount)
		assert.Equal(t, tc.subtotal+totals.DeliveryFee-tc.discount, totals.FinalTotal)
		assert.Equal(t, tc.subtotal, totals.Subtotal)
		assert.Equal(t, tc.discount, totals.CouponDiscount)
	}
}

func TestComputeTotalsIsPure(t *testing.T) {
	first := ComputeTotals(27500, 1500)
	second := ComputeTotals(27500, 1500)
	assert.Equal(t, first, second)
}

func TestComputeTotalsClampsToZero(t *testing.T) {
	totals := ComputeTotals(10000, 15000)
	assert.Equal(t, StandardDeliveryFee, totals.DeliveryFee)
	assert.Equal(t, types.Money(0), totals.FinalTotal)
}

func TestComputeTotalsTreatsNegativeInputsAsZero(t *testing.T) {
	totals := ComputeTotals(-500, -100)
	assert.Equal(t, Totals{Subtotal: 0, DeliveryFee: StandardDeliveryFee, CouponDiscount: 0, FinalTotal: StandardDeliveryFee}, totals)
}

func TestRemainingForFreeShipping(t *testing.T) {
	assert.Equal(t, types.Money(5000), RemainingForFreeShipping(25000))
	assert.Equal(t, types.Money(0), RemainingForFreeShipping(30000))
	assert.Equal(t, types.Money(0), RemainingForFreeShipping(80000))
	assert.Equal(t, FreeShippingThreshold, RemainingForFreeShipping(-1))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, Progress(0))
	assert.Equal(t, 50, Progress(15000))
	assert.Equal(t, 99, Progress(29999))
	assert.Equal(t, 100, Progress(30000))
	assert.Equal(t, 100, Progress(90000))
}
