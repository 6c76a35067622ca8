package savedjobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lifemate-backend/internal/jobs"
	"lifemate-backend/internal/seekers"
	"lifemate-backend/internal/shared/server/middleware"
	"lifemate-backend/internal/shared/server/respond"
)

type Handler struct {
	Repo    Repo
	Seekers seekers.Repo
	Jobs    jobs.Repo
}

func NewHandler(repo Repo, seekerRepo seekers.Repo, jobRepo jobs.Repo) *Handler {
	return &Handler{Repo: repo, Seekers: seekerRepo, Jobs: jobRepo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/save", h.save)
	rg.DELETE("/jobs/:id/save", h.unsave)
	rg.GET("/saved-jobs", h.list)
}

func (h *Handler) profile(c *gin.Context) (seekers.Profile, bool) {
	userID := middleware.UserIDFromContext(c)
	profile, err := h.Seekers.GetByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, seekers.ErrNotFound) {
			respond.Forbidden(c, "Create a seeker profile first")
		} else {
			respond.Error(c, http.StatusInternalServerError, "Failed to load profile", nil)
		}
		return seekers.Profile{}, false
	}
	return profile, true
}

func (h *Handler) save(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}

	jobID := c.Param("id")
	if _, err := h.Jobs.GetByID(c.Request.Context(), jobID); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			respond.NotFound(c, "Job not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to save job", nil)
		return
	}

	err := h.Repo.Save(c.Request.Context(), SavedJob{
		ID:       uuid.NewString(),
		SeekerID: profile.ID,
		JobID:    jobID,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to save job", nil)
		return
	}
	respond.OK(c, "Job saved", nil)
}

func (h *Handler) unsave(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}

	if err := h.Repo.Unsave(c.Request.Context(), profile.ID, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.NotFound(c, "Job is not saved")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to unsave job", nil)
		return
	}
	respond.OK(c, "Job unsaved", nil)
}

func (h *Handler) list(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}

	saved, err := h.Repo.ListBySeeker(c.Request.Context(), profile.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to list saved jobs", nil)
		return
	}

	// Hydrate the job postings so the client gets one round trip.
	out := make([]gin.H, 0, len(saved))
	for _, s := range saved {
		entry := gin.H{"savedAt": s.CreatedAt, "jobId": s.JobID}
		if job, err := h.Jobs.GetByID(c.Request.Context(), s.JobID); err == nil {
			entry["job"] = job
		}
		out = append(out, entry)
	}
	respond.OK(c, "Saved jobs fetched", gin.H{"savedJobs": out})
}
