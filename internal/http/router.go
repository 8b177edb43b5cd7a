// Package httpapi assembles the public HTTP surface: the shared middleware
// stack and every domain handler's routes.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"passport/internal/platform/metrics"
	"passport/internal/platform/middleware"
	"passport/pkg/platform/httputil"
	"passport/pkg/platform/middleware/metadata"
	"passport/pkg/platform/middleware/requesttime"
)

// BannerMessage is served at GET /.
const BannerMessage = "Passport Application API is running"

// RouteRegistrar is implemented by every domain handler.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// Deps are the collaborators NewRouter wires together. Nil handlers are
// skipped.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	CORS           middleware.CORSConfig
	RequestTimeout time.Duration

	Health       RouteRegistrar
	Accounts     RouteRegistrar
	Applications RouteRegistrar
}

// NewRouter wires all public endpoints behind the common middleware stack.
func NewRouter(d Deps) http.Handler {
	timeout := d.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.CORS(d.CORS))
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.LatencyMiddleware(d.Metrics))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": BannerMessage})
	})
	if d.Health != nil {
		d.Health.Register(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		for _, h := range []RouteRegistrar{d.Accounts, d.Applications} {
			if h != nil {
				h.Register(r)
			}
		}
	})

	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}
	return r
}
