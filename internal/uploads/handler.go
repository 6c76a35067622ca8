package uploads

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifemate-backend/internal/extract"
	"lifemate-backend/internal/seekers"
	"lifemate-backend/internal/shared/server/middleware"
	"lifemate-backend/internal/shared/server/respond"
	"lifemate-backend/internal/shared/storage/object"
	"lifemate-backend/internal/shared/telemetry"
	"lifemate-backend/internal/shared/util"
)

const maxUploadBytes = 5 << 20

const (
	folderResumes      = "resumes"
	folderCoverLetters = "cover-letters"
)

var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

type Handler struct {
	Store   object.ObjectStore
	Seekers *seekers.Service
}

func NewHandler(store object.ObjectStore, seekerSvc *seekers.Service) *Handler {
	return &Handler{Store: store, Seekers: seekerSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/resume", h.uploadResume)
	rg.POST("/uploads/cover-letter", h.uploadCoverLetter)
}

// readUpload pulls the multipart file into memory, enforcing the size cap.
func (h *Handler) readUpload(c *gin.Context) (data []byte, fileName string, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.ValidationError(c, []respond.FieldError{{Field: "file", Message: "file is required"}})
		return nil, "", false
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxUploadBytes {
		respond.ValidationError(c, []respond.FieldError{{Field: "file", Message: "file exceeds the 5 MB limit"}})
		return nil, "", false
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if _, allowed := allowedContentTypes[contentType]; !allowed {
		respond.ValidationError(c, []respond.FieldError{{Field: "file", Message: "only PDF and Word documents are accepted"}})
		return nil, "", false
	}

	sanitized, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.ValidationError(c, []respond.FieldError{{Field: "file", Message: "invalid file name"}})
		return nil, "", false
	}

	src, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to read upload", nil)
		return nil, "", false
	}
	defer src.Close()

	data, err = io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to read upload", nil)
		return nil, "", false
	}
	if len(data) > maxUploadBytes {
		respond.ValidationError(c, []respond.FieldError{{Field: "file", Message: "file exceeds the 5 MB limit"}})
		return nil, "", false
	}
	return data, sanitized, true
}

func (h *Handler) uploadResume(c *gin.Context) {
	data, fileName, ok := h.readUpload(c)
	if !ok {
		return
	}

	upload, err := h.Store.Save(c.Request.Context(), folderResumes, fileName, bytes.NewReader(data))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to store resume", nil)
		return
	}

	resume := seekers.ResumeFile{
		StorageKey: upload.StorageKey,
		Filename:   fileName,
		MimeType:   upload.MimeType,
		SizeBytes:  upload.SizeBytes,
	}

	// Extraction failures are not fatal; the resume is stored either way.
	if text, err := extract.Text(c.Request.Context(), data, upload.MimeType, fileName); err != nil {
		telemetry.Warn("upload.extract_failed", map[string]any{
			"storage_key": upload.StorageKey,
			"error":       err.Error(),
		})
	} else {
		resume.TextExcerpt = extract.Excerpt(text)
	}

	userID := middleware.UserIDFromContext(c)
	profile, err := h.Seekers.AttachResume(c.Request.Context(), userID, resume)
	if err != nil {
		if errors.Is(err, seekers.ErrNotFound) {
			respond.Forbidden(c, "Create a seeker profile before uploading a resume")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to attach resume", nil)
		return
	}

	respond.Created(c, "Resume uploaded", gin.H{
		"resume":  profile.Resume,
		"profile": profile,
	})
}

func (h *Handler) uploadCoverLetter(c *gin.Context) {
	data, fileName, ok := h.readUpload(c)
	if !ok {
		return
	}

	upload, err := h.Store.Save(c.Request.Context(), folderCoverLetters, fileName, bytes.NewReader(data))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to store cover letter", nil)
		return
	}

	respond.Created(c, "Cover letter uploaded", gin.H{
		"file": gin.H{
			"storageKey": upload.StorageKey,
			"filename":   fileName,
			"mimeType":   upload.MimeType,
			"sizeBytes":  upload.SizeBytes,
		},
	})
}
