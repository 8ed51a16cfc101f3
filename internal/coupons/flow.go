package coupons

import (
	"context"

	"github.com/pgkim42/book-bean-frontend-sub000/pkg/backend"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/enums"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/metrics"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/types"
)

// Gateway is the coupon side of the bookstore API.
type Gateway interface {
	AvailableCoupons(ctx context.Context) ([]backend.Coupon, error)
	CalculateDiscount(ctx context.Context, userCouponID int64, orderAmount, deliveryFee types.Money) (*backend.DiscountQuote, error)
}

// Snapshot is the coupon flow as shown on the checkout page.
type Snapshot struct {
	Phase       enums.CouponPhase `json:"phase"`
	CouponID    *int64            `json:"couponId"`
	Discount    types.Money       `json:"discount"`
	Description string            `json:"description,omitempty"`
}

// Flow tracks which coupon the shopper picked and the discount the server
// computed for it. A failed preview always returns the flow to NONE_SELECTED
// with no discount. Flow is not safe for concurrent use.
type Flow struct {
	gateway Gateway
	metrics *metrics.CheckoutMetrics

	phase       enums.CouponPhase
	couponID    int64
	discount    types.Money
	description string
	orderAmount types.Money
	deliveryFee types.Money
}

func NewFlow(gateway Gateway, m *metrics.CheckoutMetrics) (*Flow, error) {
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "coupon gateway is required")
	}
	return &Flow{gateway: gateway, metrics: m, phase: enums.CouponPhaseNoneSelected}, nil
}

// Available lists the shopper's coupons usable at checkout.
func (f *Flow) Available(ctx context.Context) ([]backend.Coupon, error) {
	coupons, err := f.gateway.AvailableCoupons(ctx)
	if err != nil {
		return nil, err
	}
	if coupons == nil {
		coupons = []backend.Coupon{}
	}
	return coupons, nil
}

// Select previews couponID against the order amount and delivery fee. Any
// state may select again; the previous coupon is dropped first.
func (f *Flow) Select(ctx context.Context, couponID int64, orderAmount, deliveryFee types.Money) (Snapshot, error) {
	if couponID <= 0 {
		return f.Snapshot(), pkgerrors.New(pkgerrors.CodeValidation, "coupon id is required")
	}
	f.Clear()

	f.phase = enums.CouponPhasePreviewing
	f.couponID = couponID

	quote, err := f.gateway.CalculateDiscount(ctx, couponID, orderAmount, deliveryFee)
	if err != nil {
		f.Clear()
		f.metrics.CouponPreviewed("rejected")
		return f.Snapshot(), err
	}

	f.phase = enums.CouponPhaseApplied
	f.discount = quote.DiscountAmount
	f.description = quote.DiscountDescription
	f.orderAmount = orderAmount
	f.deliveryFee = deliveryFee
	f.metrics.CouponPreviewed("applied")
	return f.Snapshot(), nil
}

// Reprice previews the applied coupon again when the order amount or delivery
// fee moved since the last preview. It reports whether a preview ran.
func (f *Flow) Reprice(ctx context.Context, orderAmount, deliveryFee types.Money) (bool, error) {
	if f.phase != enums.CouponPhaseApplied {
		return false, nil
	}
	if orderAmount == f.orderAmount && deliveryFee == f.deliveryFee {
		return false, nil
	}
	_, err := f.Select(ctx, f.couponID, orderAmount, deliveryFee)
	return true, err
}

// Clear drops the coupon selection.
func (f *Flow) Clear() {
	f.phase = enums.CouponPhaseNoneSelected
	f.couponID = 0
	f.discount = 0
	f.description = ""
	f.orderAmount = 0
	f.deliveryFee = 0
}

func (f *Flow) Phase() enums.CouponPhase {
	return f.phase
}

// Discount is the server-computed discount, zero unless a coupon is applied.
func (f *Flow) Discount() types.Money {
	if f.phase != enums.CouponPhaseApplied {
		return 0
	}
	return f.discount
}

// AppliedCouponID returns the coupon to send with an order, if any.
func (f *Flow) AppliedCouponID() (int64, bool) {
	if f.phase != enums.CouponPhaseApplied {
		return 0, false
	}
	return f.couponID, true
}

func (f *Flow) Snapshot() Snapshot {
	snap := Snapshot{Phase: f.phase}
	if f.phase == enums.CouponPhaseNoneSelected {
		return snap
	}
	id := f.couponID
	snap.CouponID = &id
	snap.Discount = f.Discount()
	snap.Description = f.description
	return snap
}
