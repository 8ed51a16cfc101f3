package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics counts checkout and coupon outcomes.
type CheckoutMetrics struct {
	orders  *prometheus.CounterVec
	coupons *prometheus.CounterVec
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookbean_checkout_orders_total",
		Help: "Order submissions by outcome.",
	}, []string{"outcome"})
	coupons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookbean_coupon_previews_total",
		Help: "Coupon discount previews by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(orders, coupons)
	return &CheckoutMetrics{orders: orders, coupons: coupons}
}

func (c *CheckoutMetrics) OrderSubmitted(outcome string) {
	if c == nil || c.orders == nil {
		return
	}
	c.orders.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (c *CheckoutMetrics) CouponPreviewed(outcome string) {
	if c == nil || c.coupons == nil {
		return
	}
	c.coupons.WithLabelValues(normalizeLabel(outcome)).Inc()
}
