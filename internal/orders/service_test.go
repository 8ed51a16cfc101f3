package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/pgkim42/book-bean-frontend-sub000/pkg/backend"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/enums"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	orders  map[int64]*backend.Order
	cancels []string
}

func (g *stubGateway) GetOrder(ctx context.Context, orderID int64) (*backend.Order, error) {
	order, ok := g.orders[orderID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	copied := *order
	return &copied, nil
}

func (g *stubGateway) CancelOrder(ctx context.Context, orderID int64, reason string) error {
	g.cancels = append(g.cancels, reason)
	g.orders[orderID].Status = enums.OrderStatusCancelled
	g.orders[orderID].CancelReason = reason
	return nil
}

func newService(t *testing.T, status enums.OrderStatus) (Service, *stubGateway) {
	t.Helper()
	gw := &stubGateway{orders: map[int64]*backend.Order{
		1: {ID: 1, Status: status, PaymentMethod: enums.PaymentMethodCard, FinalPrice: 28000},
	}}
	svc, err := NewService(gw)
	require.NoError(t, err)
	return svc, gw
}

func TestGetLabelsOrder(t *testing.T) {
	svc, _ := newService(t, enums.OrderStatusPaid)

	detail, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid.Label(), detail.StatusLabel)
	assert.Equal(t, enums.PaymentMethodCard.Label(), detail.PaymentMethodLabel)
	assert.True(t, detail.Cancellable)
}

func TestGetValidatesID(t *testing.T) {
	svc, _ := newService(t, enums.OrderStatusPaid)
	_, err := svc.Get(context.Background(), 0)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Get(context.Background(), 404)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestCancelAllowedStatuses(t *testing.T) {
	for _, status := range []enums.OrderStatus{enums.OrderStatusPending, enums.OrderStatusPaid} {
		svc, gw := newService(t, status)

		detail, err := svc.Cancel(context.Background(), 1, "  ordered twice ")
		require.NoError(t, err, status)
		assert.Equal(t, enums.OrderStatusCancelled, detail.Status)
		assert.False(t, detail.Cancellable)
		assert.Equal(t, []string{"ordered twice"}, gw.cancels)
	}
}

func TestCancelRefusedAfterShipping(t *testing.T) {
	for _, status := range []enums.OrderStatus{enums.OrderStatusShipped, enums.OrderStatusDelivered, enums.OrderStatusCancelled} {
		svc, gw := newService(t, status)

		_, err := svc.Cancel(context.Background(), 1, "")
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, status)
		assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
		assert.Empty(t, gw.cancels)
	}
}

func TestCancelReasonLength(t *testing.T) {
	svc, gw := newService(t, enums.OrderStatusPending)
	_, err := svc.Cancel(context.Background(), 1, strings.Repeat("가", maxCancelReasonLength+1))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, gw.cancels)
}
