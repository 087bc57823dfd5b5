package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/DanielPopoola/checkout-link-gateway/internal/adapters/handler/middleware"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "checkout-link-gateway"

type RouterOptions struct {
	RequestTimeout time.Duration
	// Docs serves the OpenAPI document at /openapi.json when set.
	Docs http.Handler
}

// NewRouter assembles the middleware chain around the checkout routes. CORS
// runs first so that every response, including recovered panics and
// timeouts, carries the cross-origin headers.
func NewRouter(h *CheckoutHandler, logger *slog.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger))
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	h.RegisterRoutes(r)
	if opts.Docs != nil {
		r.Method(http.MethodGet, "/openapi.json", opts.Docs)
	}

	return otelhttp.NewHandler(r, serviceName)
}
