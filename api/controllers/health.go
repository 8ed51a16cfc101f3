package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/pgkim42/book-bean-frontend-sub000/api/responses"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/config"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BookBean-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady answers ready once Redis responds to a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisClient Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BookBean-Env", cfg.App.Env)
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := redisClient.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
