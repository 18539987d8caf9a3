package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/pocket-activities/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	api.POST("/sessions", handler.CreateSession)

	authed := api.Group("", authMiddleware(handler.sessions))
	{
		current := authed.Group("/sessions/current")
		current.GET("", handler.GetSession)
		current.PUT("/preferences", handler.UpdatePreferences)
		current.POST("/suggestions", handler.Suggest)
		current.POST("/selection", handler.Select)
		current.DELETE("/selection", handler.ClearSelection)
		current.POST("/location", handler.ReportLocation)
		current.GET("/tomorrow-tip", handler.TomorrowTip)
		current.GET("/events", handler.StreamEvents)

		customs := authed.Group("/custom-activities")
		customs.GET("", handler.ListCustomActivities)
		customs.POST("", handler.CreateCustomActivity)
		customs.PUT("/:id", handler.UpdateCustomActivity)
		customs.DELETE("/:id", handler.DeleteCustomActivity)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
