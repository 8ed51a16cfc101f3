package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pgkim42/book-bean-frontend-sub000/api/controllers"
	"github.com/pgkim42/book-bean-frontend-sub000/api/middleware"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/checkout"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/orders"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/config"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
	pkgredis "github.com/pgkim42/book-bean-frontend-sub000/pkg/redis"
)

// RedisStore is what the router needs from Redis: readiness and idempotency records.
type RedisStore interface {
	pkgredis.IdempotencyStore
	Ping(ctx context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient RedisStore,
	gatherer prometheus.Gatherer,
	sessions middleware.SessionOpener,
	checkoutService *checkout.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisClient))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(sessions, cfg.Session, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionStatus(logg))
			r.Post("/", controllers.SessionLogin(logg))
			r.Delete("/", controllers.SessionLogout(logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(logg))
			r.Post("/items", controllers.CartAddItem(logg))
			r.Delete("/items", controllers.CartClear(logg))
			r.Put("/items/{lineId}", controllers.CartUpdateItem(logg))
			r.Delete("/items/{lineId}", controllers.CartRemoveItem(logg))
			r.Post("/items/{lineId}/toggle", controllers.CartToggleItem(logg))
			r.Post("/selection", controllers.CartSelectAll(logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutPrepare(checkoutService, logg))
			r.Post("/coupon", controllers.CheckoutApplyCoupon(checkoutService, logg))
			r.Delete("/coupon", controllers.CheckoutRemoveCoupon(checkoutService, logg))
			r.Post("/orders", controllers.CheckoutSubmit(checkoutService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(ordersService, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(logg))
			r.Post("/{bookId}", controllers.WishlistAdd(logg))
			r.Delete("/{bookId}", controllers.WishlistRemove(logg))
		})
	})

	return r
}
