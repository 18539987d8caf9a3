package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// StreamEvents upgrades to a WebSocket and forwards session events until
// the client disconnects or the session ends.
func (h *Handler) StreamEvents(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	events, cancel, err := h.sessions.Subscribe(claims.SessionID)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "sessionId", claims.SessionID, "error", err)
		return
	}
	defer conn.Close()

	pongWait := 2 * h.pingInterval
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	// A connected listener counts as activity for idle expiry.
	conn.SetPongHandler(func(string) error {
		if err := h.sessions.Touch(claims.SessionID); err != nil {
			return err
		}
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Inbound frames are ignored; reading keeps control frames flowing and
	// detects disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("websocket write failed", "sessionId", claims.SessionID, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
