package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billaudit-backend/internal/admin"
	"billaudit-backend/internal/analysis"
	"billaudit-backend/internal/auth"
	"billaudit-backend/internal/reports"
	"billaudit-backend/internal/shared/config"
	"billaudit-backend/internal/shared/server/middleware"
	"billaudit-backend/internal/shared/server/respond"
)

// RouterDeps carries the wired handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	Resolver        middleware.IdentityResolver
	AuthHandler     *auth.Handler
	GoogleFlow      *auth.GoogleFlow
	AnalysisHandler *analysis.Handler
	ReportsHandler  *reports.Handler
	AdminHandler    *admin.Handler
	DBConnected     bool
}

// NewRouter constructs the gin engine with middleware and routes registered.
// Auth routes are public; everything else requires a session, and the admin
// group additionally requires the admin role.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{
			"ok":         true,
			"env":        deps.Config.Env,
			"db":         deps.DBConnected,
			"llm":        deps.Config.OpenAIAPIKey != "",
			"mail":       deps.Config.SMTPHost != "",
			"googleAuth": deps.Config.GoogleClientID != "",
		})
	})

	api := r.Group("/api")
	deps.AuthHandler.RegisterPublicRoutes(api)
	deps.GoogleFlow.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.Auth(deps.Resolver))
	deps.AuthHandler.RegisterProtectedRoutes(protected)
	deps.AnalysisHandler.RegisterRoutes(protected)
	deps.ReportsHandler.RegisterRoutes(protected)

	adminGroup := protected.Group("")
	adminGroup.Use(middleware.AdminOnly())
	deps.AdminHandler.RegisterRoutes(adminGroup)

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
