package seekers

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
	rg.GET("/seekers/me", h.getMine)
	rg.PUT("/seekers/me", h.upsertMine)
}

type profileRequest struct {
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experienceYears"`
	Headline        string `json:"headline"`
	Phone           string `json:"phone"`
}

func (h *Handler) getMine(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	profile, err := h.Svc.GetByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.NotFound(c, "Job seeker profile not found")
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
	if req.ExperienceYears < 0 || req.ExperienceYears > 60 {
		respond.ValidationError(c, []respond.FieldError{{Field: "experienceYears", Message: "must be between 0 and 60"}})
		return
	}

	userID := middleware.UserIDFromContext(c)
	profile, err := h.Svc.UpsertProfile(c.Request.Context(), userID, Profile{
		Specialization:  req.Specialization,
		ExperienceYears: req.ExperienceYears,
		Headline:        req.Headline,
		Phone:           req.Phone,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to save profile", nil)
		return
	}
	respond.OK(c, "Profile saved", gin.H{"profile": profile})
}
