package jobs

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lifemate-backend/internal/employers"
	"lifemate-backend/internal/shared/server/middleware"
	"lifemate-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the routes seekers can reach without a token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.listOpen)
	rg.GET("/jobs/:id", h.getPublic)
}

// RegisterEmployerRoutes attaches the employer-owned management routes.
func (h *Handler) RegisterEmployerRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.create)
	rg.PUT("/jobs/:id", h.update)
	rg.GET("/employers/me/jobs", h.listMine)
}

type jobRequest struct {
	Title          string `json:"title"`
	Specialization string `json:"specialization"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
	JobType        string `json:"jobType"`
	Shift          string `json:"shift"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	IsRemote       bool   `json:"isRemote"`
	ExpiresAt      string `json:"expiresAt"`
}

func (r jobRequest) toJob() (Job, error) {
	job := Job{
		Title:          r.Title,
		Specialization: r.Specialization,
		City:           r.City,
		State:          r.State,
		Country:        r.Country,
		JobType:        r.JobType,
		Shift:          r.Shift,
		Description:    r.Description,
		Status:         r.Status,
		IsRemote:       r.IsRemote,
	}
	if r.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, r.ExpiresAt)
		if err != nil {
			return Job{}, err
		}
		job.ExpiresAt = &t
	}
	return job, nil
}

func filterFromQuery(c *gin.Context) ListFilter {
	filter := ListFilter{
		Specialization: c.Query("specialization"),
		City:           c.Query("city"),
		State:          c.Query("state"),
		JobType:        c.Query("jobType"),
		Limit:          20,
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 1 {
		filter.Offset = (page - 1) * filter.Limit
	}
	return filter
}

func (h *Handler) listOpen(c *gin.Context) {
	filter := filterFromQuery(c)
	jobs, total, err := h.Svc.ListOpen(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to list jobs", nil)
		return
	}
	respond.OK(c, "Jobs fetched", gin.H{"jobs": jobs, "total": total})
}

func (h *Handler) getPublic(c *gin.Context) {
	job, err := h.Svc.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.NotFound(c, "Job not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to fetch job", nil)
		return
	}
	respond.OK(c, "Job fetched", gin.H{"job": job})
}

func (h *Handler) create(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, []respond.FieldError{{Field: "body", Message: "invalid JSON body"}})
		return
	}
	job, err := req.toJob()
	if err != nil {
		respond.ValidationError(c, []respond.FieldError{{Field: "expiresAt", Message: "must be RFC 3339"}})
		return
	}

	userID := middleware.UserIDFromContext(c)
	created, err := h.Svc.Create(c.Request.Context(), userID, job)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.ValidationError(c, []respond.FieldError{{Field: "title", Message: "title and specialization are required"}})
		case errors.Is(err, employers.ErrNotFound):
			respond.Error(c, http.StatusConflict, "Create an employer profile before posting jobs", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to create job", nil)
		}
		return
	}
	respond.Created(c, "Job created", gin.H{"job": created})
}

func (h *Handler) update(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, []respond.FieldError{{Field: "body", Message: "invalid JSON body"}})
		return
	}
	job, err := req.toJob()
	if err != nil {
		respond.ValidationError(c, []respond.FieldError{{Field: "expiresAt", Message: "must be RFC 3339"}})
		return
	}

	userID := middleware.UserIDFromContext(c)
	updated, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), job)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.NotFound(c, "Job not found")
		case errors.Is(err, ErrForbidden):
			respond.Forbidden(c, "You do not own this job")
		case errors.Is(err, ErrInvalidInput):
			respond.ValidationError(c, []respond.FieldError{{Field: "status", Message: "unknown job status"}})
		case errors.Is(err, employers.ErrNotFound):
			respond.NotFound(c, "Employer profile not found")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to update job", nil)
		}
		return
	}
	respond.OK(c, "Job updated", gin.H{"job": updated})
}

func (h *Handler) listMine(c *gin.Context) {
	filter := filterFromQuery(c)
	filter.Status = c.Query("status")

	userID := middleware.UserIDFromContext(c)
	jobs, total, err := h.Svc.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, employers.ErrNotFound) {
			respond.NotFound(c, "Employer profile not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to list jobs", nil)
		return
	}
	respond.OK(c, "Jobs fetched", gin.H{"jobs": jobs, "total": total})
}
