package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/meetscribe/meeting-notes/internal/logger"
)

// RegisterRoutes wires the handler into the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", h.HandleHealth)

	videos := e.Group("/api/videos")
	videos.POST("", h.HandleUploadVideo)
	videos.GET("", h.HandleListVideos)
	videos.GET("/:id", h.HandleGetVideo)
	videos.GET("/:id/notes", h.HandleGetNotes)
	videos.DELETE("/:id", h.HandleDeleteVideo)
}

// SetupMiddleware configures the error handler and common middleware.
func SetupMiddleware(e *echo.Echo, log *logger.Logger) {
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger(log))
}

// requestLogger logs one line per request with the shared request
// metadata fields.
func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			log.WithRequest(c.Request()).
				WithField("status", c.Response().Status).
				WithField("duration_ms", time.Since(start).Milliseconds()).
				Info("request handled")
			return err
		}
	}
}
