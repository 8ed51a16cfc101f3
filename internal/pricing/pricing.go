package pricing

import "github.com/pgkim42/book-bean-frontend-sub000/pkg/types"

const (
	FreeShippingThreshold types.Money = 30000
	StandardDeliveryFee   types.Money = 3000
)

// Totals is the checkout breakdown shown to the shopper.
type Totals struct {
	Subtotal       types.Money `json:"subtotal"`
	DeliveryFee    types.Money `json:"deliveryFee"`
	CouponDiscount types.Money `json:"couponDiscount"`
	FinalTotal     types.Money `json:"finalTotal"`
}

// DeliveryFee waives shipping once the subtotal reaches the free-shipping threshold.
func DeliveryFee(subtotal types.Money) types.Money {
	if subtotal.NonNegative() >= FreeShippingThreshold {
		return 0
	}
	return StandardDeliveryFee
}

// ComputeTotals applies the delivery fee and coupon discount to a subtotal.
// Negative inputs count as zero and the final total never drops below zero.
func ComputeTotals(subtotal, couponDiscount types.Money) Totals {
	subtotal = subtotal.NonNegative()
	couponDiscount = couponDiscount.NonNegative()
	fee := DeliveryFee(subtotal)

	return Totals{
		Subtotal:       subtotal,
		DeliveryFee:    fee,
		CouponDiscount: couponDiscount,
		FinalTotal:     (subtotal + fee - couponDiscount).NonNegative(),
	}
}

// RemainingForFreeShipping is how much more the shopper must add to ship for free.
func RemainingForFreeShipping(subtotal types.Money) types.Money {
	return (FreeShippingThreshold - subtotal.NonNegative()).NonNegative()
}

// Progress is the free-shipping progress bar fill, 0 to 100.
func Progress(subtotal types.Money) int {
	subtotal = subtotal.NonNegative()
	if subtotal >= FreeShippingThreshold {
		return 100
	}
	return int(subtotal * 100 / FreeShippingThreshold)
}
