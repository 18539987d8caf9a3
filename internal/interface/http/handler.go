package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
	"github.com/yanqian/pocket-activities/internal/domain/session"
	"github.com/yanqian/pocket-activities/internal/infra/config"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	sessions     session.Service
	customs      activity.CustomService
	logger       *slog.Logger
	upgrader     websocket.Upgrader
	pingInterval time.Duration
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, sessions session.Service, customs activity.CustomService, logger *slog.Logger) *Handler {
	allowed := cfg.HTTP.AllowedOrigins
	return &Handler{
		sessions: sessions,
		customs:  customs,
		logger:   logger.With("component", "http.handler"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r.Header.Get("Origin"), allowed)
			},
		},
		pingInterval: 30 * time.Second,
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) claims(c *gin.Context) (session.Claims, bool) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
	}
	return claims, ok
}
