package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/letterbox/letterbox/internal/auth"
	"github.com/letterbox/letterbox/internal/cache"
	"github.com/letterbox/letterbox/internal/db"
	"github.com/letterbox/letterbox/internal/notify"
	"github.com/letterbox/letterbox/pkg/config"
	"github.com/letterbox/letterbox/pkg/logging"
)

// Route is one entry of the route table: method, path, handler, and
// whether the auth gate guards it
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Auth    bool
}

// Router wires handlers to storage services and exposes the route table
type Router struct {
	db          *db.DB
	repo        *db.Repository
	paginator   *db.Paginator
	credentials *auth.Credentials
	gate        *auth.Gate
	aggregator  *notify.Aggregator
	cfg         *config.Config
	logger      *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, cfg *config.Config) *Router {
	repo := db.NewRepository(database.DB)
	return &Router{
		db:          database,
		repo:        repo,
		paginator:   db.NewPaginator(database.DB, redisCache),
		credentials: auth.NewCredentials(repo, &cfg.Auth),
		gate:        auth.NewGate(repo),
		aggregator:  notify.NewAggregator(repo),
		cfg:         cfg,
		logger:      logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// Routes returns the route table. It is resolved once at startup; nothing
// mutates it afterwards.
func (r *Router) Routes() []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/users", Handler: r.registerUser},
		{Method: http.MethodPost, Path: "/login", Handler: r.login},
		{Method: http.MethodDelete, Path: "/users/me", Handler: r.deleteUser, Auth: true},

		{Method: http.MethodPost, Path: "/posts", Handler: r.createPost, Auth: true},
		{Method: http.MethodGet, Path: "/posts", Handler: r.listPosts},
		{Method: http.MethodGet, Path: "/posts/search", Handler: r.searchPosts},
		{Method: http.MethodGet, Path: "/posts/:id", Handler: r.getPost},
		{Method: http.MethodDelete, Path: "/posts/:id", Handler: r.deletePost, Auth: true},

		{Method: http.MethodPost, Path: "/posts/:id/replies", Handler: r.createReply, Auth: r.cfg.Auth.RequireReplyAuth},
		{Method: http.MethodGet, Path: "/posts/:id/replies", Handler: r.listReplies},

		{Method: http.MethodGet, Path: "/notifications", Handler: r.listNotifications, Auth: true},
		{Method: http.MethodGet, Path: "/notifications/count", Handler: r.countNotifications, Auth: true},
		{Method: http.MethodDelete, Path: "/notifications/:id", Handler: r.dismissNotification, Auth: true},
	}
}

// SetupRoutes binds the route table and shared middleware onto gin
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		Fail(c, MethodNotAllowed())
	})

	engine.Use(Trace())
	engine.Use(BodyLimit(r.cfg.Server.MaxBodyBytes))

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	authn := Authenticate(r.gate)
	for _, route := range r.Routes() {
		if route.Auth {
			engine.Handle(route.Method, route.Path, authn, route.Handler)
		} else {
			engine.Handle(route.Method, route.Path, route.Handler)
		}
	}
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	if err := r.db.Health(c.Request.Context()); err != nil {
		Fail(c, Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "letterbox",
	})
}
