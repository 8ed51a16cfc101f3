package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pgkim42/book-bean-frontend-sub000/pkg/types"
)

func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, call{op: "cart.get", method: http.MethodGet, path: "/carts"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddCartItem(ctx context.Context, req AddCartItemRequest) error {
	return c.do(ctx, call{op: "cart.add", method: http.MethodPost, path: "/carts/items", body: req}, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	return c.do(ctx, call{
		op:     "cart.update",
		method: http.MethodPut,
		path:   "/carts/items/" + strconv.FormatInt(itemID, 10),
		query:  url.Values{"quantity": {strconv.Itoa(quantity)}},
	}, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, call{op: "cart.remove", method: http.MethodDelete, path: "/carts/items/" + strconv.FormatInt(itemID, 10)}, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, call{op: "cart.clear", method: http.MethodDelete, path: "/carts/items"}, nil)
}

func (c *Client) AvailableCoupons(ctx context.Context) ([]Coupon, error) {
	var out []Coupon
	if err := c.do(ctx, call{op: "coupons.available", method: http.MethodGet, path: "/coupons/my/available"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CalculateDiscount asks the backend for the authoritative discount of a user coupon.
func (c *Client) CalculateDiscount(ctx context.Context, userCouponID int64, orderAmount, deliveryFee types.Money) (*DiscountQuote, error) {
	var out DiscountQuote
	err := c.do(ctx, call{
		op:     "coupons.calculate",
		method: http.MethodGet,
		path:   "/coupons/" + strconv.FormatInt(userCouponID, 10) + "/calculate",
		query: url.Values{
			"orderAmount": {strconv.FormatInt(orderAmount.Int64(), 10)},
			"deliveryFee": {strconv.FormatInt(deliveryFee.Int64(), 10)},
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var out Order
	if err := c.do(ctx, call{op: "orders.create", method: http.MethodPost, path: "/orders", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var out Order
	if err := c.do(ctx, call{op: "orders.get", method: http.MethodGet, path: "/orders/" + strconv.FormatInt(orderID, 10)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID int64, reason string) error {
	var query url.Values
	if reason != "" {
		query = url.Values{"reason": {reason}}
	}
	return c.do(ctx, call{
		op:     "orders.cancel",
		method: http.MethodPost,
		path:   "/orders/" + strconv.FormatInt(orderID, 10) + "/cancel",
		query:  query,
	}, nil)
}

func (c *Client) Wishlist(ctx context.Context) ([]WishlistBook, error) {
	var out []WishlistBook
	if err := c.do(ctx, call{op: "wishlist.list", method: http.MethodGet, path: "/wishlists"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddWishlist(ctx context.Context, bookID int64) error {
	return c.do(ctx, call{op: "wishlist.add", method: http.MethodPost, path: "/wishlists/" + strconv.FormatInt(bookID, 10)}, nil)
}

func (c *Client) RemoveWishlist(ctx context.Context, bookID int64) error {
	return c.do(ctx, call{op: "wishlist.remove", method: http.MethodDelete, path: "/wishlists/" + strconv.FormatInt(bookID, 10)}, nil)
}
