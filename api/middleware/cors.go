package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/pgkim42/book-bean-frontend-sub000/api/responses"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/config"
)

// CORS applies the storefront's allowed origins. Credentials are allowed so
// the session cookie travels with browser requests.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders:   []string{requestIDHeader, responses.LoginRedirectHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
