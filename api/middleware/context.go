package middleware

import (
	"context"

	"github.com/pgkim42/book-bean-frontend-sub000/internal/storefront"
)

type contextKey string

const ctxSession contextKey = "storefront_session"

// SessionFromContext returns the shopper session resolved for the request.
func SessionFromContext(ctx context.Context) *storefront.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*storefront.Session); ok {
		return v
	}
	return nil
}

// WithSession injects the shopper session into the context.
func WithSession(ctx context.Context, session *storefront.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, session)
}
