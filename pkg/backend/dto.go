package backend

import (
	"time"

	"github.com/pgkim42/book-bean-frontend-sub000/pkg/enums"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/types"
)

// CartItem is one line of the server-side cart. UnitPrice is the book's current sale price.
type CartItem struct {
	ID           int64       `json:"id"`
	BookID       int64       `json:"bookId"`
	Title        string      `json:"title"`
	Author       string      `json:"author,omitempty"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	Quantity     int         `json:"quantity"`
	UnitPrice    types.Money `json:"price"`
	Stock        int         `json:"stock"`
	PriceChanged bool        `json:"priceChanged"`
}

type Cart struct {
	Items      []CartItem  `json:"items"`
	TotalPrice types.Money `json:"totalPrice"`
}

type AddCartItemRequest struct {
	BookID   int64 `json:"bookId"`
	Quantity int   `json:"quantity"`
}

// Coupon is a user coupon eligible for checkout; ID is the userCouponId.
type Coupon struct {
	ID                  int64       `json:"id"`
	Name                string      `json:"couponName"`
	DiscountDescription string      `json:"discountDescription"`
	MinOrderAmount      types.Money `json:"minOrderAmount"`
	ExpiresAt           *time.Time  `json:"expiredAt,omitempty"`
}

type DiscountQuote struct {
	DiscountAmount      types.Money `json:"discountAmount"`
	DiscountDescription string      `json:"discountDescription"`
}

type OrderItemRequest struct {
	BookID   int64 `json:"bookId"`
	Quantity int   `json:"quantity"`
}

type CreateOrderRequest struct {
	RecipientName         string              `json:"recipientName"`
	RecipientPhone        string              `json:"recipientPhone"`
	ZipCode               string              `json:"zipCode"`
	DeliveryAddress       string              `json:"deliveryAddress"`
	DeliveryAddressDetail string              `json:"deliveryAddressDetail,omitempty"`
	DeliveryRequest       string              `json:"deliveryRequest,omitempty"`
	PaymentMethod         enums.PaymentMethod `json:"paymentMethod"`
	OrderItems            []OrderItemRequest  `json:"orderItems"`
	UserCouponID          *int64              `json:"userCouponId"`
}

type OrderItem struct {
	BookID    int64       `json:"bookId"`
	Title     string      `json:"title"`
	Quantity  int         `json:"quantity"`
	UnitPrice types.Money `json:"price"`
}

type Order struct {
	ID                    int64               `json:"id"`
	OrderNumber           string              `json:"orderNumber,omitempty"`
	Status                enums.OrderStatus   `json:"status"`
	PaymentMethod         enums.PaymentMethod `json:"paymentMethod"`
	TotalPrice            types.Money         `json:"totalPrice"`
	DeliveryFee           types.Money         `json:"deliveryFee"`
	DiscountAmount        types.Money         `json:"discountAmount"`
	FinalPrice            types.Money         `json:"finalPrice"`
	RecipientName         string              `json:"recipientName"`
	RecipientPhone        string              `json:"recipientPhone"`
	ZipCode               string              `json:"zipCode"`
	DeliveryAddress       string              `json:"deliveryAddress"`
	DeliveryAddressDetail string              `json:"deliveryAddressDetail,omitempty"`
	DeliveryRequest       string              `json:"deliveryRequest,omitempty"`
	CancelReason          string              `json:"cancelReason,omitempty"`
	Items                 []OrderItem         `json:"orderItems"`
	CreatedAt             time.Time           `json:"createdAt"`
}

type WishlistBook struct {
	BookID   int64       `json:"bookId"`
	Title    string      `json:"title"`
	Author   string      `json:"author,omitempty"`
	Price    types.Money `json:"price"`
	ImageURL string      `json:"imageUrl,omitempty"`
}
