package orders

import (
	"context"
	"strings"

	"github.com/pgkim42/book-bean-frontend-sub000/pkg/backend"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
)

const maxCancelReasonLength = 200

// Gateway is the order side of the bookstore API.
type Gateway interface {
	GetOrder(ctx context.Context, orderID int64) (*backend.Order, error)
	CancelOrder(ctx context.Context, orderID int64, reason string) error
}

// Detail is an order with its display labels.
type Detail struct {
	backend.Order
	StatusLabel        string `json:"statusLabel"`
	PaymentMethodLabel string `json:"paymentMethodLabel"`
	Cancellable        bool   `json:"cancellable"`
}

// Service exposes order lookup and cancellation for the signed-in shopper.
type Service interface {
	Get(ctx context.Context, orderID int64) (Detail, error)
	Cancel(ctx context.Context, orderID int64, reason string) (Detail, error)
}

type service struct {
	gateway Gateway
}

func NewService(gateway Gateway) (Service, error) {
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order gateway is required")
	}
	return &service{gateway: gateway}, nil
}

func (s *service) Get(ctx context.Context, orderID int64) (Detail, error) {
	if orderID <= 0 {
		return Detail{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.gateway.GetOrder(ctx, orderID)
	if err != nil {
		return Detail{}, err
	}
	return NewDetail(*order), nil
}

// Cancel cancels an order that is still PENDING or PAID. Other statuses are
// refused without calling the cancel endpoint.
func (s *service) Cancel(ctx context.Context, orderID int64, reason string) (Detail, error) {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) > maxCancelReasonLength {
		return Detail{}, pkgerrors.New(pkgerrors.CodeValidation, "cancel reason is too long")
	}

	current, err := s.Get(ctx, orderID)
	if err != nil {
		return Detail{}, err
	}
	if !current.Status.Cancellable() {
		return current, pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
			WithDetails(map[string]any{
				"status":      current.Status,
				"statusLabel": current.StatusLabel,
			})
	}

	if err := s.gateway.CancelOrder(ctx, orderID, reason); err != nil {
		return current, err
	}
	return s.Get(ctx, orderID)
}

// NewDetail decorates an order with its labels.
func NewDetail(order backend.Order) Detail {
	return Detail{
		Order:              order,
		StatusLabel:        order.Status.Label(),
		PaymentMethodLabel: order.PaymentMethod.Label(),
		Cancellable:        order.Status.Cancellable(),
	}
}
