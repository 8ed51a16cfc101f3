package controllers

import (
	"context"
	"net/http"

	"github.com/pgkim42/book-bean-frontend-sub000/api/responses"
	"github.com/pgkim42/book-bean-frontend-sub000/api/validators"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/storefront"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/wishlist"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/enums"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
)

const noticeWishlistUnavailable = "your wishlist could not be loaded right now"

type wishlistResponse struct {
	Mode  enums.WishlistMode `json:"mode"`
	Items []wishlist.Item    `json:"items"`
}

// WishlistFetch lists the wishlist. Load failures other than an expired login
// answer with an empty list and a notice.
func WishlistFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			resp    wishlistResponse
			loadErr error
		)
		err := inSession(r, func(ctx context.Context, scope *storefront.Scope) error {
			resp.Mode = scope.Wishlist.Mode()
			loadErr = scope.Wishlist.Refresh(ctx)
			if loadErr == nil {
				resp.Items, loadErr = scope.Wishlist.Items(ctx)
			}
			if pkgerrors.HasCode(loadErr, pkgerrors.CodeUnauthorized) {
				return loadErr
			}
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if loadErr != nil {
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", loadErr.Error()), "wishlist.load_failed")
			}
			resp.Items = []wishlist.Item{}
			responses.WriteSuccessNotice(w, resp, noticeWishlistUnavailable)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

func WishlistAdd(logg *logger.Logger) http.HandlerFunc {
	return wishlistMutation(logg, func(ctx context.Context, sync *wishlist.Sync, bookID int64) error {
		return sync.Add(ctx, bookID)
	})
}

func WishlistRemove(logg *logger.Logger) http.HandlerFunc {
	return wishlistMutation(logg, func(ctx context.Context, sync *wishlist.Sync, bookID int64) error {
		return sync.Remove(ctx, bookID)
	})
}

func wishlistMutation(logg *logger.Logger, mutate func(ctx context.Context, sync *wishlist.Sync, bookID int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := validators.ParsePathID(r, "bookId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var resp wishlistResponse
		err = inSession(r, func(ctx context.Context, scope *storefront.Scope) error {
			if err := mutate(ctx, scope.Wishlist, bookID); err != nil {
				return err
			}
			resp.Mode = scope.Wishlist.Mode()
			var err error
			resp.Items, err = scope.Wishlist.Items(ctx)
			return err
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
