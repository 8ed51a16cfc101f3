package controllers

import (
	"context"
	"net/http"

	"github.com/pgkim42/book-bean-frontend-sub000/api/responses"
	"github.com/pgkim42/book-bean-frontend-sub000/api/validators"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/orders"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/storefront"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
)

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orderID, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var detail orders.Detail
		err = signedIn(r, func(ctx context.Context, _ *storefront.Scope) error {
			var err error
			detail, err = svc.Get(ctx, orderID)
			return err
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// OrderCancel cancels an order with an optional reason. The body may be empty.
func OrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orderID, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload cancelOrderRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSON(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		reason := validators.SanitizeString(payload.Reason, 0)

		var detail orders.Detail
		err = signedIn(r, func(ctx context.Context, _ *storefront.Scope) error {
			var err error
			detail, err = svc.Cancel(ctx, orderID, reason)
			return err
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
