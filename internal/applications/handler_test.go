package applications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"lifemate-backend/internal/shared/auth"
)

func setupRouter(t *testing.T, f *fixture, userID, role string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("userRole", role)
		c.Next()
	})
	api := router.Group("/api/v1")
	handler := NewHandler(f.svc)
	handler.RegisterSeekerRoutes(api)
	handler.RegisterEmployerRoutes(api)
	handler.RegisterSharedRoutes(api)
	return router
}

func TestSubmitEndpoint(t *testing.T) {
	f := setup(t)
	router := setupRouter(t, f, f.seekerUserID, auth.RoleJobSeeker)

	body := `{"answers":[{"question":"Years in ICU?","answer":"3"}],"coverLetterText":"Hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+f.jobID+"/apply", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Attempt     int    `json:"attempt"`
			Warning     string `json:"warning"`
			Application struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"application"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Success {
		t.Fatal("success = false")
	}
	if envelope.Data.Attempt != 1 || envelope.Data.Warning != "" {
		t.Fatalf("attempt = %d, warning = %q", envelope.Data.Attempt, envelope.Data.Warning)
	}
	if envelope.Data.Application.Status != StatusApplied {
		t.Fatalf("status = %s", envelope.Data.Application.Status)
	}

	// A second submit from the same seeker conflicts.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+f.jobID+"/apply", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate submit status = %d, want 409", resp.Code)
	}
}

func TestWithdrawAndStatusEndpoints(t *testing.T) {
	f := setup(t)
	seekerRouter := setupRouter(t, f, f.seekerUserID, auth.RoleJobSeeker)
	employerRouter := setupRouter(t, f, f.employerUserID, auth.RoleEmployer)

	app := f.submit(t).Application

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/applications/"+app.ID+"/status", strings.NewReader(`{"status":"Interview"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	employerRouter.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status update = %d, body = %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/applications/"+app.ID+"/status", strings.NewReader(`{"status":"Interview"}`))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	seekerRouter.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("seeker status update = %d, want 403", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/applications/"+app.ID+"/withdraw", nil)
	resp = httptest.NewRecorder()
	seekerRouter.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("withdraw = %d, body = %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/applications/"+app.ID+"/withdraw", nil)
	resp = httptest.NewRecorder()
	seekerRouter.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("double withdraw = %d, want 409", resp.Code)
	}
}

func TestRatingEndpointValidation(t *testing.T) {
	f := setup(t)
	employerRouter := setupRouter(t, f, f.employerUserID, auth.RoleEmployer)
	app := f.submit(t).Application

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/applications/"+app.ID+"/rating", strings.NewReader(`{"rating":9}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	employerRouter.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("rating 9 = %d, want 400", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/applications/"+app.ID+"/rating", strings.NewReader(`{"rating":5}`))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	employerRouter.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("rating 5 = %d, body = %s", resp.Code, resp.Body.String())
	}
}
