package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohib357/mamstar-plan/api/controllers"
	"github.com/mohib357/mamstar-plan/api/middleware"
	"github.com/mohib357/mamstar-plan/internal/auth"
	brand "github.com/mohib357/mamstar-plan/internal/brands"
	category "github.com/mohib357/mamstar-plan/internal/categories"
	customer "github.com/mohib357/mamstar-plan/internal/customers"
	"github.com/mohib357/mamstar-plan/internal/orders"
	product "github.com/mohib357/mamstar-plan/internal/products"
	"github.com/mohib357/mamstar-plan/pkg/config"
	"github.com/mohib357/mamstar-plan/pkg/db"
	"github.com/mohib357/mamstar-plan/pkg/enums"
	"github.com/mohib357/mamstar-plan/pkg/logger"
	"github.com/mohib357/mamstar-plan/pkg/metrics"
	"github.com/mohib357/mamstar-plan/pkg/redis"
)

// RedisDeps groups the Redis-backed collaborators. Every field may be nil
// when Redis is disabled; the matching feature is then skipped.
type RedisDeps struct {
	Pinger      redis.Pinger
	RateLimiter redis.RateLimiter
	Idempotency redis.IdempotencyStore
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisDeps RedisDeps,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	authService auth.Service,
	productService product.Service,
	categoryService category.Service,
	brandService brand.Service,
	customerService customer.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisDeps.Pinger))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.LoginRateLimit(cfg.AuthRateLimit, redisDeps.RateLimiter, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.AuthMe(authService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		// Applied per route so the full pattern is known when it runs.
		idempotent := middleware.Idempotency(redisDeps.Idempotency, cfg.Catalog.IdempotencyTTL, logg)

		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.RequirePermission(enums.PermissionProducts, logg))
			r.Get("/", controllers.ProductList(productService, logg))
			r.With(idempotent).Post("/", controllers.ProductCreate(productService, logg))
			r.Get("/stats/overview", controllers.ProductStats(productService, logg))
			r.Post("/valuation/preview", controllers.ProductValuationPreview(productService, logg))
			r.Get("/{id}", controllers.ProductGet(productService, logg))
			r.Put("/{id}", controllers.ProductUpdate(productService, logg))
			r.Delete("/{id}", controllers.ProductDelete(productService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(categoryService, logg))
			r.With(middleware.RequirePermission(enums.PermissionProducts, logg)).Post("/", controllers.CategoryCreate(categoryService, logg))
			r.Get("/{id}", controllers.CategoryGet(categoryService, logg))
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.BrandList(brandService, logg))
			r.With(middleware.RequirePermission(enums.PermissionProducts, logg)).Post("/", controllers.BrandCreate(brandService, logg))
			r.Get("/{id}", controllers.BrandGet(brandService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Use(middleware.RequirePermission(enums.PermissionCustomers, logg))
			r.Get("/", controllers.CustomerList(customerService, logg))
			r.Post("/", controllers.CustomerCreate(customerService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequirePermission(enums.PermissionOrders, logg))
			r.Get("/", controllers.OrderList(orderService, logg))
			r.With(idempotent).Post("/", controllers.OrderCreate(orderService, logg))
			r.Get("/stats/overview", controllers.OrderStats(orderService, logg))
			r.Get("/{id}", controllers.OrderGet(orderService, logg))
			r.Delete("/{id}", controllers.OrderDelete(orderService, logg))
			r.Patch("/{id}/status", controllers.OrderUpdateStatus(orderService, logg))
		})
	})

	return r
}
