package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakmere/storefront/internal/service"
	"github.com/oakmere/storefront/pkg/health"
	"github.com/oakmere/storefront/pkg/middleware"
)

// RouterConfig bundles the router's tunables.
type RouterConfig struct {
	CORS          middleware.CORSConfig
	AuthRateRPS   int
	AuthRateBurst int
	// CatalogMaxAge is the Cache-Control max-age in seconds for catalog
	// reads. Zero disables the header.
	CatalogMaxAge int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	authService *service.AuthService,
	catalogService *service.CatalogService,
	wishlistService *service.WishlistService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Token validator bridging the middleware to the JWT manager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := authService.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
		}, nil
	}

	// Auth endpoints (public, rate limited)
	authHandler := NewAuthHandler(authService, logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.RateLimit(cfg.AuthRateRPS, cfg.AuthRateBurst, logger))

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.RefreshToken)
		r.Post("/logout", authHandler.Logout)
	})

	// Catalog endpoints (public)
	catalogHandler := NewCatalogHandler(catalogService, logger)
	r.Group(func(r chi.Router) {
		if cfg.CatalogMaxAge > 0 {
			r.Use(middleware.CacheControl(cfg.CatalogMaxAge))
		}

		r.Get("/api/v1/products", catalogHandler.ListProducts)
		r.Get("/api/v1/products/{id}", catalogHandler.GetProduct)
		r.Get("/api/v1/categories", catalogHandler.ListCategories)
	})

	// Profile and wishlist endpoints (auth required)
	userHandler := NewUserHandler(authService, logger)
	wishlistHandler := NewWishlistHandler(wishlistService, logger)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/me", userHandler.GetProfile)
		r.Put("/me", userHandler.UpdateProfile)
		r.Post("/me/profile", userHandler.CreateProfile)

		r.Get("/me/wishlist", wishlistHandler.List)
		r.Post("/me/wishlist", wishlistHandler.Add)
		r.Patch("/me/wishlist/{itemID}", wishlistHandler.Update)
		r.Delete("/me/wishlist/{itemID}", wishlistHandler.Remove)
	})

	return r
}
