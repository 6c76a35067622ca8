package uploads

import (
	"archive/zip"
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"lifemate-backend/internal/seekers"
	"lifemate-backend/internal/shared/storage/object/local"
)

const docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	doc := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func setupRouter(t *testing.T) (*gin.Engine, *seekers.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seekerRepo := seekers.NewMemoryRepo()
	handler := NewHandler(local.New(t.TempDir()), seekers.NewService(seekerRepo))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router, seekerRepo
}

func TestUploadResumeAttachesToProfile(t *testing.T) {
	router, seekerRepo := setupRouter(t)
	ctx := context.Background()

	if err := seekerRepo.Create(ctx, seekers.Profile{ID: "seeker-1", UserID: "user-1"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	body, contentType := multipartBody(t, "resume.docx", docxMime, buildDocx(t, "ICU nursing experience"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/resume", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	profile, err := seekerRepo.GetByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if profile.Resume == nil {
		t.Fatal("resume not attached")
	}
	if profile.Resume.StorageKey == "" {
		t.Fatal("resume missing storage key")
	}
	if !strings.Contains(profile.Resume.TextExcerpt, "ICU nursing") {
		t.Fatalf("excerpt %q missing extracted text", profile.Resume.TextExcerpt)
	}
}

func TestUploadResumeRejectsUnknownType(t *testing.T) {
	router, _ := setupRouter(t)

	body, contentType := multipartBody(t, "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/resume", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestUploadResumeRequiresProfile(t *testing.T) {
	router, _ := setupRouter(t)

	body, contentType := multipartBody(t, "resume.docx", docxMime, buildDocx(t, "content"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/resume", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.Code)
	}
}
