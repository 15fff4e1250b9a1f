package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewEcho builds the HTTP front: API routes under /api/v1 checked against
// the contract, plus /health, /metrics and /swagger/*.
func NewEcho(s *Server, contract *APIContract, metrics http.Handler, logger *slog.Logger) *echo.Echo {
	logger = logger.With("component", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.LogAttrs(c.Request().Context(), level, "Request handled",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
	if contract != nil {
		contract.RegisterSwagger()
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := e.Group("/api/v1")
	if contract != nil {
		api.Use(contract.ValidateRequests())
	}
	s.Register(api)

	return e
}
