package httpserver

import (
	"missioncontrol/internal/handler"
	"missioncontrol/pkg/otel"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Projects       *handler.ProjectHandler
	Modules        *handler.ModuleHandler
	Tasks          *handler.TaskHandler
	Blockers       *handler.BlockerHandler
	ChangeRequests *handler.ChangeRequestHandler
	Clients        *handler.ClientHandler
	Events         *handler.EventHandler
	ClientAuth     *handler.ClientAuthHandler
	Summary        *handler.SummaryHandler
}

type Options struct {
	JWTSecret      string
	AdminCookie    string
	LoginPerMinute int
	LoginBurst     int
	TrustedProxies []string
}

type Router struct {
	Engine *gin.Engine
}

func NewRouter(h Handlers, opts Options, logger *zap.Logger, checks ...ReadinessCheck) *Router {
	r := gin.New()
	// client IPs key the login limiter, so forwarded headers count only from known proxies
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		logger.Warn("Invalid trusted proxies, trusting none", zap.Strings("trusted_proxies", opts.TrustedProxies), zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(otel.GinMiddleware())
	r.Use(ClientSession())

	RegisterHealth(r, checks...)

	// Public
	login := RateLimitMiddleware(opts.LoginPerMinute, opts.LoginBurst)
	r.POST("/api/client/auth", login, h.ClientAuth.Login)
	r.DELETE("/api/client/auth", h.ClientAuth.Logout)
	r.GET("/client/:slug", h.ClientAuth.LoginPage)
	r.GET("/client/:slug/dashboard", h.ClientAuth.DashboardPage)

	// Client session
	r.GET("/api/client/:slug", h.ClientAuth.Dashboard)

	// Admin or the project's own client session
	r.GET("/api/summary/:projectId", AdminAuth(opts.JWTSecret, opts.AdminCookie, false), h.Summary.Get)

	// Admin
	admin := r.Group("/api")
	admin.Use(AdminAuth(opts.JWTSecret, opts.AdminCookie, true))
	{
		admin.GET("/me", handler.Me)

		admin.GET("/projects", h.Projects.List)
		admin.GET("/projects/:id", h.Projects.Get)
		admin.POST("/projects", h.Projects.Create)
		admin.PATCH("/projects", h.Projects.Update)
		admin.DELETE("/projects", h.Projects.Delete)

		admin.GET("/modules", h.Modules.List)
		admin.POST("/modules", h.Modules.Create)
		admin.DELETE("/modules", h.Modules.Delete)

		admin.POST("/tasks", h.Tasks.Create)
		admin.PATCH("/tasks/:id", h.Tasks.Patch)
		admin.DELETE("/tasks/:id", h.Tasks.Delete)

		admin.GET("/blockers", h.Blockers.List)
		admin.POST("/blockers", h.Blockers.Create)
		admin.PATCH("/blockers", h.Blockers.Update)

		admin.GET("/change-requests", h.ChangeRequests.List)
		admin.POST("/change-requests", h.ChangeRequests.Create)
		admin.PATCH("/change-requests", h.ChangeRequests.Update)

		admin.GET("/clients", h.Clients.List)
		admin.POST("/clients", h.Clients.Create)
		admin.DELETE("/clients", h.Clients.Delete)

		admin.GET("/events", h.Events.List)
		admin.POST("/events", h.Events.Create)
	}

	return &Router{Engine: r}
}
