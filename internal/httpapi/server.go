package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"biograph-match-engine/internal/config"
	"biograph-match-engine/internal/store"
)

// NewServer builds the echo.Echo instance with every route and
// middleware wired, mirroring cmd/api/main.go's inline setup in the
// teacher repository but factored into a constructor so cmd/api stays
// thin.
func NewServer(cfg config.Config, st *store.Store, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) { return true, nil },
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	limiter := NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	e.Use(limiter.Middleware())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	matchHandler := NewMatchHandler(st, logger)
	api := e.Group("/api/match", AdminKeyAuth(cfg.AdminAPIKeyHash, logger))
	api.POST("", matchHandler.Create)
	api.GET("/:id", matchHandler.Get)
	api.GET("/:id/report.html", matchHandler.ReportHTML)

	return e
}
