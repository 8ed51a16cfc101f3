package features

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/pricing"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/types"
)

type pricingTestContext struct {
	subtotal types.Money
	discount types.Money
	totals   []pricing.Totals
}

func (p *pricingTestContext) reset() {
	p.subtotal = 0
	p.discount = 0
	p.totals = nil
}

func (p *pricingTestContext) aSelectedSubtotalOf(amount int64) error {
	p.subtotal = types.Money(amount)
	return nil
}

func (p *pricingTestContext) noCouponDiscount() error {
	p.discount = 0
	return nil
}

func (p *pricingTestContext) aCouponDiscountOf(amount int64) error {
	p.discount = types.Money(amount)
	return nil
}

func (p *pricingTestContext) theCheckoutTotalsAreComputed() error {
	p.totals = append(p.totals, pricing.ComputeTotals(p.subtotal, p.discount))
	return nil
}

func (p *pricingTestContext) last() (pricing.Totals, error) {
	if len(p.totals) == 0 {
		return pricing.Totals{}, fmt.Errorf("totals were never computed")
	}
	return p.totals[len(p.totals)-1], nil
}

func (p *pricingTestContext) theDeliveryFeeIs(amount int64) error {
	totals, err := p.last()
	if err != nil {
		return err
	}
	if totals.DeliveryFee != types.Money(amount) {
		return fmt.Errorf("expected delivery fee %d, got %d", amount, totals.DeliveryFee)
	}
	return nil
}

func (p *pricingTestContext) theFinalTotalIs(amount int64) error {
	totals, err := p.last()
	if err != nil {
		return err
	}
	if totals.FinalTotal != types.Money(amount) {
		return fmt.Errorf("expected final total %d, got %d", amount, totals.FinalTotal)
	}
	return nil
}

func (p *pricingTestContext) theShopperStillNeedsForFreeShipping(amount int64) error {
	remaining := pricing.RemainingForFreeShipping(p.subtotal)
	if remaining != types.Money(amount) {
		return fmt.Errorf("expected %d remaining for free shipping, got %d", amount, remaining)
	}
	return nil
}

func (p *pricingTestContext) bothComputationsAgree() error {
	if len(p.totals) != 2 {
		return fmt.Errorf("expected two computations, got %d", len(p.totals))
	}
	if p.totals[0] != p.totals[1] {
		return fmt.Errorf("computations differ: %+v vs %+v", p.totals[0], p.totals[1])
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &pricingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a selected subtotal of (\d+)$`, tc.aSelectedSubtotalOf)
	ctx.Step(`^no coupon discount$`, tc.noCouponDiscount)
	ctx.Step(`^a coupon discount of (\d+)$`, tc.aCouponDiscountOf)

	// When steps
	ctx.Step(`^the checkout totals are computed$`, tc.theCheckoutTotalsAreComputed)
	ctx.Step(`^the checkout totals are computed again$`, tc.theCheckoutTotalsAreComputed)

	// Then steps
	ctx.Step(`^the delivery fee is (\d+)$`, tc.theDeliveryFeeIs)
	ctx.Step(`^the final total is (\d+)$`, tc.theFinalTotalIs)
	ctx.Step(`^the shopper still needs (\d+) for free shipping$`, tc.theShopperStillNeedsForFreeShipping)
	ctx.Step(`^both computations agree$`, tc.bothComputationsAgree)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"pricing.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
