package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lifemate-backend/internal/shared/auth"
)

func signTestToken(t *testing.T, claims auth.Claims) string {
	t.Helper()
	t.Setenv("ENV", "dev")
	token, err := auth.SignJWT(claims)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth())
	router.OPTIONS("/api/v1/applications", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/applications", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthRejectsMissingOrMalformedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth())
	router.GET("/api/v1/applications", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "wrong scheme", header: "Basic abc123"},
		{name: "empty bearer", header: "Bearer "},
		{name: "garbage token", header: "Bearer not.a.jwt"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.name, resp.Code)
		}
	}
}

func TestAuthSetsIdentityInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	token := signTestToken(t, auth.Claims{
		Sub:   "user-1",
		Role:  auth.RoleJobSeeker,
		Email: "seeker@example.com",
		Name:  "Sam Seeker",
	})

	var gotID, gotRole, gotEmail, gotName string
	router := gin.New()
	router.Use(Auth())
	router.GET("/api/v1/me", func(c *gin.Context) {
		gotID = UserIDFromContext(c)
		gotRole = UserRoleFromContext(c)
		gotEmail = UserEmailFromContext(c)
		gotName = UserNameFromContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotID != "user-1" || gotRole != auth.RoleJobSeeker {
		t.Fatalf("unexpected identity %q/%q", gotID, gotRole)
	}
	if gotEmail != "seeker@example.com" || gotName != "Sam Seeker" {
		t.Fatalf("unexpected email/name %q/%q", gotEmail, gotName)
	}
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	token := signTestToken(t, auth.Claims{Sub: "user-2", Role: auth.RoleEmployer})

	router := gin.New()
	router.Use(Auth())

	seekerOnly := router.Group("", RequireRoles(auth.RoleJobSeeker))
	seekerOnly.GET("/api/v1/saved-jobs", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	employerSide := router.Group("", RequireRoles(auth.RoleEmployer, auth.RoleAdmin))
	employerSide.GET("/api/v1/employers/me", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/saved-jobs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employer on seeker route, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/employers/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for employer on employer route, got %d", resp.Code)
	}
}
