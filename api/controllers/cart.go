package controllers

import (
	"context"
	"net/http"

	"github.com/pgkim42/book-bean-frontend-sub000/api/responses"
	"github.com/pgkim42/book-bean-frontend-sub000/api/validators"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/cart"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/storefront"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
)

type addCartItemRequest struct {
	BookID   int64 `json:"bookId" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,min=1,max=99"`
}

// Quantities below 1 are accepted here and ignored by the cart.
type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartSelectionRequest struct {
	Selected *bool `json:"selected" validate:"required"`
}

// CartFetch refetches the shopper's cart.
func CartFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var summary cart.Summary
		err := signedIn(r, func(ctx context.Context, scope *storefront.Scope) error {
			if err := scope.Cart.Refresh(ctx); err != nil {
				return err
			}
			summary = scope.Cart.Summary()
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func CartAddItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var summary cart.Summary
		err := signedIn(r, func(ctx context.Context, scope *storefront.Scope) error {
			if err := scope.Cart.Add(ctx, payload.BookID, payload.Quantity); err != nil {
				return err
			}
			summary = scope.Cart.Summary()
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

// CartUpdateItem changes a line quantity. A quantity below 1 leaves the cart
// untouched and returns it unchanged.
func CartUpdateItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := validators.ParsePathID(r, "lineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateCartItemRequest
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var summary cart.Summary
		err = signedIn(r, func(ctx context.Context, scope *storefront.Scope) error {
			if err := loadCart(ctx, scope); err != nil {
				return err
			}
			if _, err := scope.Cart.UpdateQuantity(ctx, lineID, payload.Quantity); err != nil {
				return err
			}
			summary = scope.Cart.Summary()
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func CartRemoveItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := validators.ParsePathID(r, "lineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var summary cart.Summary
		err = signedIn(r, func(ctx context.Context, scope *storefront.Scope) error {
			if err := loadCart(ctx, scope); err != nil {
				return err
			}
			if err := scope.Cart.Remove(ctx, lineID); err != nil {
				return err
			}
			summary = scope.Cart.Summary()
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func CartClear(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var summary cart.Summary
		err := signedIn(r, func(ctx context.Context, scope *storefront.Scope) error {
			if err := scope.Cart.Clear(ctx); err != nil {
				return err
			}
			scope.Coupons.Clear()
			summary = scope.Cart.Summary()
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// CartToggleItem flips the checkout selection of one line.
func CartToggleItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := validators.ParsePathID(r, "lineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var summary cart.Summary
		err = signedIn(r, func(ctx context.Context, scope *storefront.Scope) error {
			if err := loadCart(ctx, scope); err != nil {
				return err
			}
			if _, err := scope.Cart.ToggleSelection(lineID); err != nil {
				return err
			}
			summary = scope.Cart.Summary()
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// CartSelectAll selects or deselects every line.
func CartSelectAll(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartSelectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var summary cart.Summary
		err := signedIn(r, func(ctx context.Context, scope *storefront.Scope) error {
			if err := loadCart(ctx, scope); err != nil {
				return err
			}
			scope.Cart.SetAllSelected(*payload.Selected)
			summary = scope.Cart.Summary()
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
