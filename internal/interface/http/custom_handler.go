package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
)

// ListCustomActivities returns the owner's saved activities.
func (h *Handler) ListCustomActivities(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	items, err := h.customs.List(c.Request.Context(), claims.OwnerID)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"customActivities": items})
}

// CreateCustomActivity validates and stores a new activity.
func (h *Handler) CreateCustomActivity(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	var draft activity.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	item, err := h.customs.Create(c.Request.Context(), claims.OwnerID, draft)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateCustomActivity replaces an existing activity.
func (h *Handler) UpdateCustomActivity(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	var draft activity.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	item, err := h.customs.Update(c.Request.Context(), claims.OwnerID, c.Param("id"), draft)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteCustomActivity removes an activity and clears it from any session
// where it is the current selection.
func (h *Handler) DeleteCustomActivity(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.customs.Delete(c.Request.Context(), claims.OwnerID, id); err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	h.sessions.CustomDeleted(claims.OwnerID, id)
	c.Status(http.StatusNoContent)
}
