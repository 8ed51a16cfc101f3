package controllers

import (
	"context"
	"net/http"

	"github.com/pgkim42/book-bean-frontend-sub000/api/responses"
	"github.com/pgkim42/book-bean-frontend-sub000/api/validators"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/checkout"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/orders"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/storefront"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
)

const maxDraftFieldLength = 200

type applyCouponRequest struct {
	CouponID int64 `json:"couponId" validate:"required,gt=0"`
}

// CheckoutPrepare loads the checkout page for the selected cart lines.
func CheckoutPrepare(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var page checkout.Page
		err := signedIn(r, func(ctx context.Context, scope *storefront.Scope) error {
			var err error
			page, err = svc.Prepare(ctx, scope.Basket())
			return err
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// CheckoutApplyCoupon previews a coupon. A rejected coupon answers with the
// backend message and leaves no coupon applied.
func CheckoutApplyCoupon(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var quote checkout.Quote
		err := signedIn(r, func(ctx context.Context, scope *storefront.Scope) error {
			if err := loadCart(ctx, scope); err != nil {
				return err
			}
			var err error
			quote, err = svc.ApplyCoupon(ctx, scope.Basket(), payload.CouponID)
			return err
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

func CheckoutRemoveCoupon(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var quote checkout.Quote
		err := signedIn(r, func(ctx context.Context, scope *storefront.Scope) error {
			if err := loadCart(ctx, scope); err != nil {
				return err
			}
			quote = svc.RemoveCoupon(scope.Basket())
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CheckoutSubmit places the order for the selected lines.
func CheckoutSubmit(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		var draft checkout.Draft
		if err := validators.DecodeJSON(r, &draft); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		draft = sanitizeDraft(draft)

		var detail orders.Detail
		err := signedIn(r, func(ctx context.Context, scope *storefront.Scope) error {
			if err := loadCart(ctx, scope); err != nil {
				return err
			}
			var err error
			detail, err = svc.Submit(ctx, scope.Basket(), draft)
			return err
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// sanitizeDraft trims free-text fields. Length limits are left to validation,
// except for the optional delivery note which is cut silently.
func sanitizeDraft(d checkout.Draft) checkout.Draft {
	d.RecipientName = validators.SanitizeString(d.RecipientName, 0)
	d.RecipientPhone = validators.SanitizeString(d.RecipientPhone, 0)
	d.ZipCode = validators.SanitizeString(d.ZipCode, 0)
	d.DeliveryAddress = validators.SanitizeString(d.DeliveryAddress, 0)
	d.DeliveryAddressDetail = validators.SanitizeString(d.DeliveryAddressDetail, 0)
	d.DeliveryRequest = validators.SanitizeString(d.DeliveryRequest, maxDraftFieldLength)
	return d
}
