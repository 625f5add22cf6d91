package router // package router registers every HTTP route of the service

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/sakila-rental-service/internal/config"
	"github.com/iliyamo/sakila-rental-service/internal/handler"
	"github.com/iliyamo/sakila-rental-service/internal/logger"
	"github.com/iliyamo/sakila-rental-service/internal/middleware"
	"github.com/iliyamo/sakila-rental-service/internal/service"
	"github.com/iliyamo/sakila-rental-service/internal/utils"
)

// Deps is everything the routes need.  Redis may be nil, in which case
// caching and rate limiting are skipped.
type Deps struct {
	Config    config.Config
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
	DB        handler.Pinger
	Catalog   *service.Catalog
	Lifecycle *service.Lifecycle
	Log       *logger.Logger
}

// New builds the echo instance with the global middleware chain and all
// routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = handler.JSONSerializer{}

	e.Use(middleware.RequestID())
	e.Use(middleware.AccessLog(d.Log))

	RegisterHealth(e, d.DB)
	RegisterAuth(e, &handler.AuthHandler{Cfg: d.Config, Log: d.Log})

	// Middleware is attached per route so unmatched /v1 paths stay plain 404s.
	v1 := e.Group("/v1")
	RegisterCatalog(v1, d)
	RegisterLifecycle(v1, d)
	return e
}

// RegisterHealth exposes liveness and readiness probes outside /v1 so they
// bypass rate limiting.
func RegisterHealth(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAuth exposes the staff login.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/v1/auth/login", a.Login)
}

// RegisterCatalog registers the read-only query routes.  Only the film
// searches go through the response cache.
func RegisterCatalog(v1 *echo.Group, d Deps) {
	films := &handler.FilmHandler{Catalog: d.Catalog, Log: d.Log}
	actors := &handler.ActorHandler{Catalog: d.Catalog, Log: d.Log}
	customers := &handler.CustomerHandler{Catalog: d.Catalog, Lifecycle: d.Lifecycle, Log: d.Log}

	limit := middleware.RateLimit(d.RateLimit, d.Redis, d.Log)
	cached := []echo.MiddlewareFunc{limit, middleware.ResponseCache(d.Cache, d.Redis, d.Log)}

	v1.GET("/films/search/title/:title", films.SearchByTitle, cached...)
	v1.GET("/films/search/category/:category", films.SearchByCategory, cached...)
	v1.GET("/films/search/actor/:name", films.SearchByActor, cached...)

	v1.GET("/films/top", films.Top, limit)
	v1.GET("/films/:id", films.Details, limit)
	v1.GET("/actors/top", actors.Top, limit)
	v1.GET("/actors/:id", actors.Details, limit)
	v1.GET("/customers", customers.List, limit)
	v1.GET("/customers/:id", customers.Details, limit)
}

// RegisterLifecycle registers the mutation routes.  All of them require a
// staff access token; the rate limit runs after auth so buckets are kept
// per staff member.
func RegisterLifecycle(v1 *echo.Group, d Deps) {
	customers := &handler.CustomerHandler{Catalog: d.Catalog, Lifecycle: d.Lifecycle, Log: d.Log}
	rentals := &handler.RentalHandler{Lifecycle: d.Lifecycle, Log: d.Log}

	staff := []echo.MiddlewareFunc{
		middleware.StaffAuth(d.Config.JWTSecret),
		middleware.RequireRole(utils.RoleStaff),
		middleware.RateLimit(d.RateLimit, d.Redis, d.Log),
	}
	v1.POST("/customers", customers.Create, staff...)
	v1.PATCH("/customers/:id", customers.Update, staff...)
	v1.DELETE("/customers/:id", customers.Delete, staff...)
	v1.POST("/rentals/validate", rentals.Validate, staff...)
	v1.POST("/rentals/:id/return", rentals.Return, staff...)
}
