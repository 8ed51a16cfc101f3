package coupons

import (
	"context"
	"testing"

	"github.com/pgkim42/book-bean-frontend-sub000/pkg/backend"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/enums"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/metrics"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calculation struct {
	couponID    int64
	orderAmount types.Money
	deliveryFee types.Money
}

type stubGateway struct {
	coupons      []backend.Coupon
	listErr      error
	quotes       map[int64]backend.DiscountQuote
	calculations []calculation
}

func (g *stubGateway) AvailableCoupons(ctx context.Context) ([]backend.Coupon, error) {
	return g.coupons, g.listErr
}

func (g *stubGateway) CalculateDiscount(ctx context.Context, id int64, orderAmount, deliveryFee types.Money) (*backend.DiscountQuote, error) {
	g.calculations = append(g.calculations, calculation{id, orderAmount, deliveryFee})
	quote, ok := g.quotes[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUpstreamRejected, "minimum order amount not met")
	}
	return &quote, nil
}

func newFlow(t *testing.T, gw *stubGateway) *Flow {
	t.Helper()
	flow, err := NewFlow(gw, nil)
	require.NoError(t, err)
	return flow
}

func TestNewFlowStartsEmpty(t *testing.T) {
	flow := newFlow(t, &stubGateway{})
	assert.Equal(t, enums.CouponPhaseNoneSelected, flow.Phase())
	assert.Equal(t, types.Money(0), flow.Discount())
	assert.Nil(t, flow.Snapshot().CouponID)

	_, err := NewFlow(nil, nil)
	require.Error(t, err)
}

func TestSelectAppliesServerDiscount(t *testing.T) {
	gw := &stubGateway{quotes: map[int64]backend.DiscountQuote{7: {DiscountAmount: 2500, DiscountDescription: "10% off"}}}
	flow := newFlow(t, gw)

	snap, err := flow.Select(context.Background(), 7, 25000, 3000)
	require.NoError(t, err)
	assert.Equal(t, enums.CouponPhaseApplied, snap.Phase)
	assert.Equal(t, types.Money(2500), snap.Discount)
	assert.Equal(t, "10% off", snap.Description)
	require.NotNil(t, snap.CouponID)
	assert.Equal(t, int64(7), *snap.CouponID)
	assert.Equal(t, []calculation{{7, 25000, 3000}}, gw.calculations)

	id, ok := flow.AppliedCouponID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestRejectedPreviewResetsDiscount(t *testing.T) {
	gw := &stubGateway{quotes: map[int64]backend.DiscountQuote{7: {DiscountAmount: 2500}}}
	flow := newFlow(t, gw)

	_, err := flow.Select(context.Background(), 7, 25000, 3000)
	require.NoError(t, err)

	snap, err := flow.Select(context.Background(), 8, 25000, 3000)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUpstreamRejected))
	assert.Equal(t, enums.CouponPhaseNoneSelected, snap.Phase)
	assert.Equal(t, types.Money(0), snap.Discount)
	assert.Equal(t, types.Money(0), flow.Discount())
	_, ok := flow.AppliedCouponID()
	assert.False(t, ok)
}

func TestSelectRequiresCouponID(t *testing.T) {
	gw := &stubGateway{}
	flow := newFlow(t, gw)

	_, err := flow.Select(context.Background(), 0, 1000, 3000)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, gw.calculations)
}

func TestInvalidSelectionKeepsAppliedCoupon(t *testing.T) {
	gw := &stubGateway{quotes: map[int64]backend.DiscountQuote{7: {DiscountAmount: 2500}}}
	flow := newFlow(t, gw)
	ctx := context.Background()

	_, err := flow.Select(ctx, 7, 25000, 3000)
	require.NoError(t, err)

	snap, err := flow.Select(ctx, 0, 25000, 3000)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, enums.CouponPhaseApplied, snap.Phase)
	assert.Equal(t, types.Money(2500), snap.Discount)
	id, ok := flow.AppliedCouponID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
	assert.Len(t, gw.calculations, 1)
}

func TestRepriceOnlyWhenInputsChange(t *testing.T) {
	gw := &stubGateway{quotes: map[int64]backend.DiscountQuote{7: {DiscountAmount: 2500}}}
	flow := newFlow(t, gw)
	ctx := context.Background()

	ran, err := flow.Reprice(ctx, 25000, 3000)
	require.NoError(t, err)
	assert.False(t, ran)

	_, err = flow.Select(ctx, 7, 25000, 3000)
	require.NoError(t, err)

	ran, err = flow.Reprice(ctx, 25000, 3000)
	require.NoError(t, err)
	assert.False(t, ran)

	ran, err = flow.Reprice(ctx, 32000, 0)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, calculation{7, 32000, 0}, gw.calculations[len(gw.calculations)-1])
}

func TestRepriceFailureResets(t *testing.T) {
	gw := &stubGateway{quotes: map[int64]backend.DiscountQuote{7: {DiscountAmount: 2500}}}
	flow := newFlow(t, gw)
	ctx := context.Background()

	_, err := flow.Select(ctx, 7, 25000, 3000)
	require.NoError(t, err)
	delete(gw.quotes, 7)

	ran, err := flow.Reprice(ctx, 5000, 3000)
	assert.True(t, ran)
	require.Error(t, err)
	assert.Equal(t, enums.CouponPhaseNoneSelected, flow.Phase())
	assert.Equal(t, types.Money(0), flow.Discount())
}

func TestClear(t *testing.T) {
	gw := &stubGateway{quotes: map[int64]backend.DiscountQuote{7: {DiscountAmount: 2500}}}
	flow := newFlow(t, gw)
	_, err := flow.Select(context.Background(), 7, 25000, 3000)
	require.NoError(t, err)

	flow.Clear()
	assert.Equal(t, Snapshot{Phase: enums.CouponPhaseNoneSelected}, flow.Snapshot())
}

func TestAvailableNeverNil(t *testing.T) {
	flow := newFlow(t, &stubGateway{})
	coupons, err := flow.Available(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, coupons)
	assert.Empty(t, coupons)
}

func TestPreviewOutcomesAreCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	gw := &stubGateway{quotes: map[int64]backend.DiscountQuote{7: {DiscountAmount: 2500}}}
	flow, err := NewFlow(gw, metrics.NewCheckoutMetrics(reg))
	require.NoError(t, err)

	_, _ = flow.Select(context.Background(), 7, 25000, 3000)
	_, _ = flow.Select(context.Background(), 9, 25000, 3000)

	families, err := reg.Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "bookbean_coupon_previews_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" {
					counts[label.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, map[string]float64{"applied": 1, "rejected": 1}, counts)
}
