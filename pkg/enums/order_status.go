package enums

import "fmt"

// OrderStatus tracks an order through its lifecycle on the backend.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusPending:   "결제 대기",
	OrderStatusPaid:      "결제 완료",
	OrderStatusShipped:   "배송 중",
	OrderStatusDelivered: "배송 완료",
	OrderStatusCancelled: "주문 취소",
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Cancellable reports whether the shopper may still cancel the order.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusPaid
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// UnmarshalText rejects values outside the closed set.
func (s *OrderStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseOrderStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
