package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-scorer/internal/analyses"
	"resume-scorer/internal/dashboard"
	"resume-scorer/internal/identity"
	"resume-scorer/internal/services/health"
	"resume-scorer/internal/session"
	"resume-scorer/internal/shared/config"
	"resume-scorer/internal/shared/metrics"
	"resume-scorer/internal/shared/server/middleware"
	"resume-scorer/internal/shared/server/respond"
	"resume-scorer/internal/shared/storage/object"
	"resume-scorer/internal/users"
)

const uploadRateLimitGroup = "UPLOAD"

// RouterDeps are the handlers and collaborators mounted by NewRouter.
type RouterDeps struct {
	Config           config.Config
	Sessions         middleware.TokenVerifier
	Health           *health.Service
	Files            object.Store
	IdentityHandler  *identity.Handler
	AnalysisHandler  *analyses.Handler
	DashboardHandler *dashboard.Handler
	UsersHandler     *users.Handler
	SessionHandler   *session.Handler
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

	limiter := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			middleware.DefaultRateLimitGroup: {Rate: deps.Config.RateLimitRate, Burst: deps.Config.RateLimitBurst},
			uploadRateLimitGroup:             {Rate: deps.Config.UploadRate, Burst: deps.Config.UploadBurst},
		},
		GroupFor: middleware.GroupByRoute(map[string]string{
			"POST /api/v1/analyses":      uploadRateLimitGroup,
			"POST /api/v1/profile/photo": uploadRateLimitGroup,
		}),
		Limiter: middleware.NewRateLimiter(nil),
	})

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler(deps.Health))
	if deps.Files != nil {
		api.GET("/files/*path", filesHandler(deps.Files))
	}

	public := api.Group("")
	public.Use(limiter)
	if deps.IdentityHandler != nil {
		deps.IdentityHandler.RegisterRoutes(public)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(deps.Sessions), limiter)
	if deps.IdentityHandler != nil {
		deps.IdentityHandler.RegisterAuthenticated(authed)
	}
	if deps.SessionHandler != nil {
		deps.SessionHandler.RegisterRoutes(authed)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(authed)
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.RegisterRoutes(authed)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(authed)
	}

	return r
}

func healthHandler(svc *health.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc == nil {
			respond.OK(c, health.Status{OK: true, Database: health.StateDisabled})
			return
		}
		status := svc.Check(c.Request.Context())
		if !status.OK {
			respond.JSON(c, http.StatusServiceUnavailable, status)
			return
		}
		respond.OK(c, status)
	}
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
