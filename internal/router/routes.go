package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octobees/bakery-finder/internal/config"
	"github.com/octobees/bakery-finder/internal/handler"
	middlewarepkg "github.com/octobees/bakery-finder/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Health   *handler.HealthHandler
	Bakeries *handler.BakeriesHandler
	Scraping *handler.ScrapingHandler
}

// New builds an Echo instance with the shared middleware stack and every route registered.
func New(cfg *config.Config, logger *zap.Logger, handlers Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.BodyLimit("1M"))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAuthorization, middlewarepkg.HeaderRequestID},
		ExposeHeaders: []string{middlewarepkg.HeaderRequestID},
	}))

	Register(e, cfg, handlers)
	return e
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	api := e.Group("/api")

	if handlers.Health != nil {
		api.GET("/health", handlers.Health.Check)
	}

	bakeries := api.Group("/bakeries")
	bakeries.GET("", handlers.Bakeries.List)
	bakeries.POST("", handlers.Bakeries.Create)
	bakeries.GET("/:id", handlers.Bakeries.Get)
	bakeries.PUT("/:id", handlers.Bakeries.Update)
	bakeries.DELETE("/:id", handlers.Bakeries.Delete)

	scraping := api.Group("/scraping", middlewarepkg.ScrapeRateLimiter(cfg.RateLimitScrape))
	scraping.POST("/bakery/:id", handlers.Scraping.ScrapeBakery)
	scraping.POST("/all", handlers.Scraping.ScrapeAll)
}
