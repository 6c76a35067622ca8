package employers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifemate-backend/internal/shared/server/middleware"
	"lifemate-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/employers/me", h.getMine)
	rg.PUT("/employers/me", h.upsertMine)
	rg.POST("/employers/me/stats/resync", h.resyncStats)
}

type profileRequest struct {
	OrganizationName     string `json:"organizationName"`
	OrganizationType     string `json:"organizationType"`
	ContactName          string `json:"contactName"`
	ContactEmail         string `json:"contactEmail"`
	NotifyNewApplication *bool  `json:"notifyNewApplication"`
}

func (h *Handler) getMine(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	profile, err := h.Svc.GetByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.NotFound(c, "Employer profile not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to fetch profile", nil)
		return
	}
	respond.OK(c, "Profile fetched", gin.H{"profile": profile})
}

func (h *Handler) upsertMine(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, []respond.FieldError{{Field: "body", Message: "invalid JSON body"}})
		return
	}
	if req.OrganizationName == "" {
		respond.ValidationError(c, []respond.FieldError{{Field: "organizationName", Message: "organization name is required"}})
		return
	}

	notify := true
	if req.NotifyNewApplication != nil {
		notify = *req.NotifyNewApplication
	}

	userID := middleware.UserIDFromContext(c)
	profile, err := h.Svc.UpsertProfile(c.Request.Context(), userID, Profile{
		OrganizationName:     req.OrganizationName,
		OrganizationType:     req.OrganizationType,
		ContactName:          req.ContactName,
		ContactEmail:         req.ContactEmail,
		NotifyNewApplication: notify,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to save profile", nil)
		return
	}
	respond.OK(c, "Profile saved", gin.H{"profile": profile})
}

func (h *Handler) resyncStats(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	stats, err := h.Svc.ResyncStats(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.NotFound(c, "Employer profile not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to resync stats", nil)
		return
	}
	respond.OK(c, "Stats resynchronized", gin.H{"stats": stats})
}
