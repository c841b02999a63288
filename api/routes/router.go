package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agrofix/agrofix-backend/api/controllers"
	"github.com/agrofix/agrofix-backend/api/middleware"
	"github.com/agrofix/agrofix-backend/internal/auth"
	"github.com/agrofix/agrofix-backend/internal/cart"
	"github.com/agrofix/agrofix-backend/internal/orders"
	"github.com/agrofix/agrofix-backend/internal/products"
	"github.com/agrofix/agrofix-backend/internal/users"
	"github.com/agrofix/agrofix-backend/pkg/config"
	"github.com/agrofix/agrofix-backend/pkg/logger"
	"github.com/agrofix/agrofix-backend/pkg/metrics"
	"github.com/agrofix/agrofix-backend/pkg/redis"
)

// Dependencies is everything the HTTP surface needs. Readiness entries are
// pinged by /health/ready.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	Readiness   map[string]controllers.Pinger
	Idempotency redis.IdempotencyStore
	RateLimiter middleware.RateLimiter
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth     auth.Service
	Users    users.Service
	Products products.Service
	Orders   orders.Service
	Cart     cart.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, deps.Readiness, logg))
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	loginLimit := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerLimit := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(deps.Auth, cfg.Session.CookieName, logg))

		r.With(middleware.AuthRateLimit(registerLimit, deps.RateLimiter, logg)).
			Post("/register", controllers.Register(deps.Auth, cfg.Session, logg))
		r.With(middleware.AuthRateLimit(loginLimit, deps.RateLimiter, logg)).
			Post("/login", controllers.Login(deps.Auth, cfg.Session, logg))
		r.Post("/logout", controllers.Logout(deps.Auth, cfg.Session, logg))
		r.With(middleware.RequireAuth(logg)).Get("/user", controllers.CurrentUser(deps.Users, logg))

		r.Get("/products", controllers.ListProducts(deps.Products, logg))
		r.Get("/products/{id}", controllers.GetProduct(deps.Products, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Post("/products", controllers.CreateProduct(deps.Products, logg))
			r.Put("/products/{id}", controllers.UpdateProduct(deps.Products, logg))
			r.Delete("/products/{id}", controllers.DeleteProduct(deps.Products, logg))
			r.Put("/orders/{id}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
		})

		r.With(middleware.Idempotency(deps.Idempotency, logg)).
			Post("/orders", controllers.CreateOrder(deps.Orders, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(logg))
			r.Get("/orders", controllers.ListOrders(deps.Orders, logg))
			r.Get("/orders/{id}", controllers.GetOrder(deps.Orders, logg))
			r.Get("/cart", controllers.GetCart(deps.Cart, logg))
			r.Post("/cart", controllers.UpdateCart(deps.Cart, logg))
		})

		r.Get("/track/{orderNumber}", controllers.TrackOrder(deps.Orders, logg))
	})

	return r
}
