package applications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lifemate-backend/internal/employers"
	"lifemate-backend/internal/jobs"
	"lifemate-backend/internal/shared/server/middleware"
	"lifemate-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterSeekerRoutes attaches the routes only job seekers may call.
func (h *Handler) RegisterSeekerRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/apply", h.submit)
	rg.PATCH("/applications/:id/withdraw", h.withdraw)
	rg.GET("/applications", h.listMine)
}

// RegisterEmployerRoutes attaches the routes for employers and admins.
func (h *Handler) RegisterEmployerRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/applications/:id/status", h.updateStatus)
	rg.PATCH("/applications/:id/rating", h.setRating)
	rg.GET("/employers/me/applications", h.listForEmployer)
	rg.GET("/jobs/:id/applications", h.listForJob)
}

// RegisterSharedRoutes attaches the routes any authenticated role may call;
// per-application authorization happens in the service.
func (h *Handler) RegisterSharedRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications/:id", h.get)
}

type fileRefRequest struct {
	StorageKey string `json:"storageKey"`
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	SizeBytes  int64  `json:"sizeBytes"`
}

func (f *fileRefRequest) toFileRef() *FileRef {
	if f == nil || f.StorageKey == "" {
		return nil
	}
	return &FileRef{
		StorageKey: f.StorageKey,
		Filename:   f.Filename,
		MimeType:   f.MimeType,
		SizeBytes:  f.SizeBytes,
	}
}

type submitRequest struct {
	Resume          *fileRefRequest `json:"resume"`
	CoverLetterFile *fileRefRequest `json:"coverLetterFile"`
	CoverLetterText string          `json:"coverLetterText"`
	Answers         []Answer        `json:"answers"`
}

func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.ValidationError(c, []respond.FieldError{{Field: "body", Message: "invalid JSON body"}})
			return
		}
	}

	userID := middleware.UserIDFromContext(c)
	result, err := h.Svc.Submit(c.Request.Context(), userID, c.Param("id"), SubmitInput{
		Resume:          req.Resume.toFileRef(),
		CoverLetterFile: req.CoverLetterFile.toFileRef(),
		CoverLetterText: req.CoverLetterText,
		Answers:         req.Answers,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyApplied):
			respond.Conflict(c, "You have already applied to this job")
		case errors.Is(err, ErrMaxAttempts):
			respond.Conflict(c, "Maximum application attempts reached for this job")
		case errors.Is(err, ErrJobNotOpen):
			respond.NotFound(c, "Job not found or no longer accepting applications")
		case errors.Is(err, ErrNoSeekerProfile):
			respond.Forbidden(c, "Create a seeker profile before applying")
		case errors.Is(err, ErrNoEmployer):
			respond.Forbidden(c, "This job is not accepting applications")
		case errors.Is(err, ErrSelfApplication):
			respond.Forbidden(c, "You cannot apply to your own job posting")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to submit application", nil)
		}
		return
	}

	data := gin.H{
		"application": result.Application,
		"attempt":     result.Attempt,
	}
	if result.Warning != "" {
		data["warning"] = result.Warning
	}
	respond.Created(c, "Application submitted", data)
}

type withdrawRequest struct {
	Note string `json:"note"`
}

func (h *Handler) withdraw(c *gin.Context) {
	var req withdrawRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.ValidationError(c, []respond.FieldError{{Field: "body", Message: "invalid JSON body"}})
			return
		}
	}

	userID := middleware.UserIDFromContext(c)
	app, err := h.Svc.Withdraw(c.Request.Context(), userID, c.Param("id"), req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.NotFound(c, "Application not found")
		case errors.Is(err, ErrForbidden):
			respond.Forbidden(c, "You do not own this application")
		case errors.Is(err, ErrAlreadyTerminal):
			respond.Conflict(c, "Application is already closed")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to withdraw application", nil)
		}
		return
	}
	respond.OK(c, "Application withdrawn", gin.H{"application": app})
}

type statusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, []respond.FieldError{{Field: "body", Message: "invalid JSON body"}})
		return
	}

	actor := actorFromContext(c)
	app, err := h.Svc.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			respond.ValidationError(c, []respond.FieldError{{Field: "status", Message: "unknown application status"}})
		case errors.Is(err, ErrNotFound):
			respond.NotFound(c, "Application not found")
		case errors.Is(err, ErrForbidden):
			respond.Forbidden(c, "You do not manage this application")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to update status", nil)
		}
		return
	}
	respond.OK(c, "Application status updated", gin.H{"application": app})
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

func (h *Handler) setRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, []respond.FieldError{{Field: "body", Message: "invalid JSON body"}})
		return
	}

	actor := actorFromContext(c)
	app, err := h.Svc.SetRating(c.Request.Context(), actor, c.Param("id"), req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRating):
			respond.ValidationError(c, []respond.FieldError{{Field: "rating", Message: "rating must be between 1 and 5"}})
		case errors.Is(err, ErrNotFound):
			respond.NotFound(c, "Application not found")
		case errors.Is(err, ErrForbidden):
			respond.Forbidden(c, "You do not manage this application")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to set rating", nil)
		}
		return
	}
	respond.OK(c, "Rating saved", gin.H{"application": app})
}

func (h *Handler) get(c *gin.Context) {
	actor := actorFromContext(c)
	app, err := h.Svc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.NotFound(c, "Application not found")
		case errors.Is(err, ErrForbidden):
			respond.Forbidden(c, "You cannot view this application")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to fetch application", nil)
		}
		return
	}
	respond.OK(c, "Application fetched", gin.H{"application": app})
}

func (h *Handler) listMine(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	apps, total, err := h.Svc.ListMine(c.Request.Context(), userID, filterFromQuery(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to list applications", nil)
		return
	}
	respond.OK(c, "Applications fetched", gin.H{"applications": apps, "total": total})
}

func (h *Handler) listForEmployer(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	apps, total, err := h.Svc.ListForEmployer(c.Request.Context(), userID, filterFromQuery(c))
	if err != nil {
		if errors.Is(err, employers.ErrNotFound) {
			respond.NotFound(c, "Employer profile not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to list applications", nil)
		return
	}
	respond.OK(c, "Applications fetched", gin.H{"applications": apps, "total": total})
}

func (h *Handler) listForJob(c *gin.Context) {
	actor := actorFromContext(c)
	apps, total, err := h.Svc.ListForJob(c.Request.Context(), actor, c.Param("id"), filterFromQuery(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			respond.Forbidden(c, "You do not own this job")
		case errors.Is(err, jobs.ErrNotFound):
			respond.NotFound(c, "Job not found")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to list applications", nil)
		}
		return
	}
	respond.OK(c, "Applications fetched", gin.H{"applications": apps, "total": total})
}

func actorFromContext(c *gin.Context) Actor {
	return Actor{
		UserID: middleware.UserIDFromContext(c),
		Role:   middleware.UserRoleFromContext(c),
	}
}

func filterFromQuery(c *gin.Context) ListFilter {
	filter := ListFilter{Limit: 20}
	filter.Status = c.Query("status")
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 1 {
		filter.Offset = (page - 1) * filter.Limit
	}
	return filter
}
