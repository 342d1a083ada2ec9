package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/k8s-demo/order-service/internal/handlers"
	"github.com/k8s-demo/order-service/internal/middleware"
)

// Options configures the HTTP router
type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration

	// Metrics enables request instrumentation and the exposition endpoint when set
	Metrics     *middleware.Metrics
	MetricsPath string
}

// New builds the service router and registers every route
func New(orders *handlers.OrderHandler, health *handlers.HealthHandler, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(opts.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(handlers.NotFound(opts.Logger))
	r.MethodNotAllowed(handlers.MethodNotAllowed(opts.Logger))

	r.Get("/health", health.ServeHTTP)
	if opts.Metrics != nil {
		r.Handle(opts.MetricsPath, opts.Metrics.Handler())
	}

	RegisterOrderRoutes(r, orders, health)

	return r
}

// RegisterOrderRoutes mounts the order endpoints under /api/orders
func RegisterOrderRoutes(r chi.Router, orders *handlers.OrderHandler, health *handlers.HealthHandler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/health", health.ServeHTTP)
		r.Get("/", orders.ListOrders)
		r.Post("/", orders.CreateOrder)
		r.Get("/{id}", orders.GetOrder)
	})
}
