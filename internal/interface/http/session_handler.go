package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
	"github.com/yanqian/pocket-activities/internal/domain/session"
)

type createSessionRequest struct {
	OwnerID string `json:"ownerId"`
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Denied    bool     `json:"denied"`
	Reason    string   `json:"reason"`
}

// CreateSession starts a session, optionally for a returning owner.
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	created, err := h.sessions.Create(c.Request.Context(), req.OwnerID)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetSession returns the current view.
func (h *Handler) GetSession(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	h.respondView(c, func() (session.View, error) {
		return h.sessions.View(c.Request.Context(), claims.SessionID)
	})
}

// UpdatePreferences replaces the time/daylight filter.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	var prefs session.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	h.respondView(c, func() (session.View, error) {
		return h.sessions.UpdatePreferences(c.Request.Context(), claims.SessionID, prefs)
	})
}

// Suggest runs a generation for the current preferences.
func (h *Handler) Suggest(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	h.respondView(c, func() (session.View, error) {
		return h.sessions.Suggest(c.Request.Context(), claims.SessionID)
	})
}

// Select marks a suggestion or custom activity as the active selection.
func (h *Handler) Select(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	var sel session.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	h.respondView(c, func() (session.View, error) {
		return h.sessions.Select(c.Request.Context(), claims.SessionID, sel)
	})
}

// ClearSelection resets the session back to its initial state.
func (h *Handler) ClearSelection(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	h.respondView(c, func() (session.View, error) {
		return h.sessions.Reset(c.Request.Context(), claims.SessionID)
	})
}

// ReportLocation accepts coordinates or a denial from the client.
func (h *Handler) ReportLocation(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if req.Denied {
		h.respondView(c, func() (session.View, error) {
			return h.sessions.ReportLocationDenied(c.Request.Context(), claims.SessionID, req.Reason)
		})
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "latitude and longitude are required", nil))
		return
	}
	coords := activity.Coords{Latitude: *req.Latitude, Longitude: *req.Longitude}
	h.respondView(c, func() (session.View, error) {
		return h.sessions.ReportLocation(c.Request.Context(), claims.SessionID, coords)
	})
}

// TomorrowTip returns advice for doing the selected activity tomorrow.
func (h *Handler) TomorrowTip(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	tip, err := h.sessions.TomorrowTip(c.Request.Context(), claims.SessionID)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"weatherTipLong": tip})
}

func (h *Handler) respondView(c *gin.Context, fn func() (session.View, error)) {
	view, err := fn()
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusOK, view)
}
