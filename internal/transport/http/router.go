// Package httptransport assembles the HTTP surface: platform middleware,
// feature handlers and the operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"foodbridge/internal/platform/metrics"
	"foodbridge/internal/platform/middleware"
	"foodbridge/internal/transport/http/shared"
)

// Registrar is implemented by feature handlers that mount routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports dependency readiness for /healthz.
type HealthChecker func(ctx context.Context) error

// Deps carries everything the router needs. Handlers register inside the
// authenticated group; operational endpoints stay outside it.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	JWTValidator middleware.JWTValidator
	Handlers     []Registrar
	Health       HealthChecker
	Timeout      time.Duration
}

// NewRouter builds the full route tree.
func NewRouter(d Deps) http.Handler {
	if d.Timeout <= 0 {
		d.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(d.Timeout))
	if d.Metrics != nil {
		r.Use(d.Metrics.Latency)
	}

	r.Get("/healthz", healthHandler(d.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(d.JWTValidator, d.Logger))
		for _, h := range d.Handlers {
			h.Register(r)
		}
	})

	return r
}

func healthHandler(check HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable,
					map[string]string{"status": "degraded", "error": err.Error()})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
