package checkout

import (
	"context"

	"github.com/pgkim42/book-bean-frontend-sub000/internal/cart"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/coupons"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/orders"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/pricing"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/backend"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/enums"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/metrics"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/types"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/validation"
	"golang.org/x/sync/errgroup"
)

const (
	noticeCouponsUnavailable = "coupons could not be loaded; you can still place the order without one"
	noticeCouponDropped      = "the selected coupon no longer applies to this order and was removed"
)

// OrderGateway creates orders on the bookstore API.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*backend.Order, error)
}

// Basket is the slice of a shopper session checkout works on.
type Basket struct {
	Cart    *cart.State
	Coupons *coupons.Flow
}

// Quote is the price breakdown of the currently selected lines.
type Quote struct {
	pricing.Totals
	RemainingForFreeShipping types.Money      `json:"remainingForFreeShipping"`
	FreeShippingProgress     int              `json:"freeShippingProgress"`
	Coupon                   coupons.Snapshot `json:"coupon"`
}

type PaymentMethodOption struct {
	Code  enums.PaymentMethod `json:"code"`
	Label string              `json:"label"`
}

// Page is everything the checkout screen renders.
type Page struct {
	Lines          []cart.Line           `json:"lines"`
	Coupons        []backend.Coupon      `json:"coupons"`
	PaymentMethods []PaymentMethodOption `json:"paymentMethods"`
	Quote          Quote                 `json:"quote"`
	Notices        []string              `json:"notices,omitempty"`
}

// Draft is the order form. It is validated before anything is sent.
type Draft struct {
	RecipientName         string              `json:"recipientName" validate:"required,max=50"`
	RecipientPhone        string              `json:"recipientPhone" validate:"required,phone"`
	ZipCode               string              `json:"zipCode" validate:"required,numeric,len=5"`
	DeliveryAddress       string              `json:"deliveryAddress" validate:"required,max=200"`
	DeliveryAddressDetail string              `json:"deliveryAddressDetail" validate:"omitempty,max=200"`
	DeliveryRequest       string              `json:"deliveryRequest" validate:"omitempty,max=200"`
	PaymentMethod         enums.PaymentMethod `json:"paymentMethod" validate:"required,payment_method"`
}

// Service binds cart selection, coupon flow and pricing into checkout.
type Service struct {
	gateway OrderGateway
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
}

func NewService(gateway OrderGateway, m *metrics.CheckoutMetrics, logg *logger.Logger) (*Service, error) {
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order gateway is required")
	}
	return &Service{gateway: gateway, metrics: m, logg: logg}, nil
}

// Prepare refreshes the cart and loads coupons concurrently. A coupon list
// failure degrades to an empty list with a notice; a cart failure is returned.
func (s *Service) Prepare(ctx context.Context, b Basket) (Page, error) {
	if err := checkBasket(b); err != nil {
		return Page{}, err
	}

	var (
		available []backend.Coupon
		couponErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Cart.Refresh(gctx)
	})
	g.Go(func() error {
		available, couponErr = b.Coupons.Available(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}

	page := Page{
		Lines:          b.Cart.SelectedLines(),
		Coupons:        available,
		PaymentMethods: paymentMethodOptions(),
	}
	if couponErr != nil {
		if pkgerrors.HasCode(couponErr, pkgerrors.CodeUnauthorized) {
			return Page{}, couponErr
		}
		s.warn(ctx, "checkout.coupons_unavailable", couponErr)
		page.Coupons = []backend.Coupon{}
		page.Notices = append(page.Notices, noticeCouponsUnavailable)
	}

	if notice, err := s.reprice(ctx, b); err != nil {
		return Page{}, err
	} else if notice != "" {
		page.Notices = append(page.Notices, notice)
	}

	page.Quote = s.Quote(b)
	return page, nil
}

// Quote prices the selected lines with the applied coupon discount.
func (s *Service) Quote(b Basket) Quote {
	subtotal := b.Cart.SelectedSubtotal()
	return Quote{
		Totals:                   pricing.ComputeTotals(subtotal, b.Coupons.Discount()),
		RemainingForFreeShipping: pricing.RemainingForFreeShipping(subtotal),
		FreeShippingProgress:     pricing.Progress(subtotal),
		Coupon:                   b.Coupons.Snapshot(),
	}
}

// ApplyCoupon previews couponID against the current selection. On rejection
// the coupon flow is reset and the error returned alongside the new quote.
func (s *Service) ApplyCoupon(ctx context.Context, b Basket, couponID int64) (Quote, error) {
	if err := checkBasket(b); err != nil {
		return Quote{}, err
	}
	subtotal := b.Cart.SelectedSubtotal()
	if len(b.Cart.SelectedLines()) == 0 {
		b.Coupons.Clear()
		return s.Quote(b), pkgerrors.New(pkgerrors.CodeValidation, "select at least one item before applying a coupon")
	}
	_, err := b.Coupons.Select(ctx, couponID, subtotal, pricing.DeliveryFee(subtotal))
	return s.Quote(b), err
}

// RemoveCoupon clears the coupon selection.
func (s *Service) RemoveCoupon(b Basket) Quote {
	b.Coupons.Clear()
	return s.Quote(b)
}

// Submit validates the draft and places the order for the selected lines.
// On success the cart is refetched and the coupon flow cleared.
func (s *Service) Submit(ctx context.Context, b Basket, draft Draft) (orders.Detail, error) {
	if err := checkBasket(b); err != nil {
		return orders.Detail{}, err
	}
	lines := b.Cart.SelectedLines()
	if len(lines) == 0 {
		s.metrics.OrderSubmitted("invalid")
		return orders.Detail{}, pkgerrors.New(pkgerrors.CodeValidation, "select at least one item to order").
			WithDetails(map[string]string{"orderItems": "is required"})
	}
	if err := validation.Struct(draft); err != nil {
		s.metrics.OrderSubmitted("invalid")
		return orders.Detail{}, err
	}

	req := backend.CreateOrderRequest{
		RecipientName:         draft.RecipientName,
		RecipientPhone:        draft.RecipientPhone,
		ZipCode:               draft.ZipCode,
		DeliveryAddress:       draft.DeliveryAddress,
		DeliveryAddressDetail: draft.DeliveryAddressDetail,
		DeliveryRequest:       draft.DeliveryRequest,
		PaymentMethod:         draft.PaymentMethod,
		OrderItems:            make([]backend.OrderItemRequest, 0, len(lines)),
	}
	for _, line := range lines {
		req.OrderItems = append(req.OrderItems, backend.OrderItemRequest{BookID: line.BookID, Quantity: line.Quantity})
	}
	if couponID, ok := b.Coupons.AppliedCouponID(); ok {
		req.UserCouponID = &couponID
	}

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		s.metrics.OrderSubmitted("rejected")
		return orders.Detail{}, err
	}
	s.metrics.OrderSubmitted("created")

	b.Coupons.Clear()
	if err := b.Cart.Refresh(ctx); err != nil {
		s.warn(ctx, "checkout.cart_refresh_failed", err)
	}
	return orders.NewDetail(*order), nil
}

func (s *Service) reprice(ctx context.Context, b Basket) (string, error) {
	subtotal := b.Cart.SelectedSubtotal()
	ran, err := b.Coupons.Reprice(ctx, subtotal, pricing.DeliveryFee(subtotal))
	if !ran || err == nil {
		return "", nil
	}
	if pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		return "", err
	}
	s.warn(ctx, "checkout.coupon_dropped", err)
	return noticeCouponDropped, nil
}

func (s *Service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}

func checkBasket(b Basket) error {
	if b.Cart == nil || b.Coupons == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "checkout basket is incomplete")
	}
	return nil
}

func paymentMethodOptions() []PaymentMethodOption {
	methods := enums.PaymentMethods()
	out := make([]PaymentMethodOption, 0, len(methods))
	for _, m := range methods {
		out = append(out, PaymentMethodOption{Code: m, Label: m.Label()})
	}
	return out
}
