package notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lifemate-backend/internal/shared/server/middleware"
	"lifemate-backend/internal/shared/server/respond"
)

type Handler struct {
	Repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.list)
	rg.GET("/notifications/unread-count", h.unreadCount)
	rg.PATCH("/notifications/:id/read", h.markRead)
	rg.PATCH("/notifications/read-all", h.markAllRead)
}

func (h *Handler) list(c *gin.Context) {
	limit := 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	offset := 0
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 1 {
		offset = (page - 1) * limit
	}

	userID := middleware.UserIDFromContext(c)
	items, err := h.Repo.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to list notifications", nil)
		return
	}
	respond.OK(c, "Notifications fetched", gin.H{"notifications": items})
}

func (h *Handler) unreadCount(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	count, err := h.Repo.CountUnread(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to count notifications", nil)
		return
	}
	respond.OK(c, "Unread count fetched", gin.H{"count": count})
}

func (h *Handler) markRead(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Repo.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.NotFound(c, "Notification not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to mark notification read", nil)
		return
	}
	respond.OK(c, "Notification marked read", nil)
}

func (h *Handler) markAllRead(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Repo.MarkAllRead(c.Request.Context(), userID); err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to mark notifications read", nil)
		return
	}
	respond.OK(c, "All notifications marked read", nil)
}
