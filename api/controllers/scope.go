package controllers

import (
	"context"
	"net/http"

	"github.com/pgkim42/book-bean-frontend-sub000/api/middleware"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/storefront"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
)

type scopeFunc func(ctx context.Context, scope *storefront.Scope) error

func requestSession(r *http.Request) (*storefront.Session, error) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return session, nil
}

// inSession runs fn under the lock of the request's shopper session.
func inSession(r *http.Request, fn scopeFunc) error {
	session, err := requestSession(r)
	if err != nil {
		return err
	}
	return session.Do(r.Context(), fn)
}

// signedIn is inSession for routes that need a logged-in shopper.
func signedIn(r *http.Request, fn scopeFunc) error {
	return inSession(r, func(ctx context.Context, scope *storefront.Scope) error {
		if err := scope.RequireLogin(); err != nil {
			return err
		}
		return fn(ctx, scope)
	})
}

// loadCart fetches the cart once per session so line lookups see server state.
func loadCart(ctx context.Context, scope *storefront.Scope) error {
	if scope.Cart.Loaded() {
		return nil
	}
	return scope.Cart.Refresh(ctx)
}
