package server

import (
	"github.com/gin-gonic/gin"

	"lifemate-backend/internal/applications"
	googleauth "lifemate-backend/internal/auth"
	"lifemate-backend/internal/employers"
	"lifemate-backend/internal/jobs"
	"lifemate-backend/internal/notifications"
	"lifemate-backend/internal/savedjobs"
	"lifemate-backend/internal/seekers"
	"lifemate-backend/internal/shared/auth"
	"lifemate-backend/internal/shared/config"
	"lifemate-backend/internal/shared/metrics"
	"lifemate-backend/internal/shared/server/middleware"
	"lifemate-backend/internal/shared/server/respond"
	"lifemate-backend/internal/uploads"
	"lifemate-backend/internal/users"
)

// RouterDeps carries the handlers the router wires up. Bootstrap builds
// them; tests can pass a subset.
type RouterDeps struct {
	Config               config.Config
	GoogleAuth           *googleauth.GoogleService
	UsersHandler         *users.Handler
	SeekersHandler       *seekers.Handler
	EmployersHandler     *employers.Handler
	JobsHandler          *jobs.Handler
	ApplicationsHandler  *applications.Handler
	NotificationsHandler *notifications.Handler
	SavedJobsHandler     *savedjobs.Handler
	UploadsHandler       *uploads.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, "ok", nil)
	})
	r.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.JobsHandler != nil {
		deps.JobsHandler.RegisterPublicRoutes(api)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth())

	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(authed)
	}
	if deps.NotificationsHandler != nil {
		deps.NotificationsHandler.RegisterRoutes(authed)
	}
	if deps.ApplicationsHandler != nil {
		deps.ApplicationsHandler.RegisterSharedRoutes(authed)
	}

	seekerOnly := authed.Group("")
	seekerOnly.Use(middleware.RequireRoles(auth.RoleJobSeeker))
	if deps.SeekersHandler != nil {
		deps.SeekersHandler.RegisterRoutes(seekerOnly)
	}
	if deps.SavedJobsHandler != nil {
		deps.SavedJobsHandler.RegisterRoutes(seekerOnly)
	}
	if deps.UploadsHandler != nil {
		deps.UploadsHandler.RegisterRoutes(seekerOnly)
	}
	if deps.ApplicationsHandler != nil {
		// Submissions share a token bucket per user so one seeker cannot
		// hammer the apply endpoint.
		applyGroup := seekerOnly.Group("")
		applyGroup.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"APPLY": {Rate: 0.5, Burst: 5},
			},
			DefaultGroup: "APPLY",
		}))
		deps.ApplicationsHandler.RegisterSeekerRoutes(applyGroup)
	}

	employerSide := authed.Group("")
	employerSide.Use(middleware.RequireRoles(auth.RoleEmployer, auth.RoleAdmin))
	if deps.EmployersHandler != nil {
		deps.EmployersHandler.RegisterRoutes(employerSide)
	}
	if deps.JobsHandler != nil {
		deps.JobsHandler.RegisterEmployerRoutes(employerSide)
	}
	if deps.ApplicationsHandler != nil {
		deps.ApplicationsHandler.RegisterEmployerRoutes(employerSide)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
