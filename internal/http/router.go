package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
)

func NewRouter(h *CartHandler, requestTimeout time.Duration, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(RequestIDHeader)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Storefront page
	r.Get("/", h.Page)
	r.Post("/cart/add", h.FormAdd)
	r.Post("/cart/items/{index}/qty", h.FormChangeQuantity)
	r.Post("/cart/items/{index}/remove", h.FormRemove)
	r.Post("/cart/clear", h.FormClear)
	r.Post("/checkout", h.FormCheckout)

	// API routes
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{index}", h.ChangeQuantity)
		r.Delete("/items/{index}", h.RemoveItem)
		r.Post("/checkout", h.Checkout)
	})

	// Spans go to the global tracer provider, a no-op until one is set.
	return otelhttp.NewHandler(r, "cleanshop",
		otelhttp.WithPropagators(propagation.TraceContext{}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
