package api

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pictora/pictora/internal/api/objects"
	"github.com/pictora/pictora/internal/auth"
	"github.com/pictora/pictora/internal/cache"
	"github.com/pictora/pictora/internal/db"
	"github.com/pictora/pictora/internal/notify"
	"github.com/pictora/pictora/internal/storage"
	"github.com/pictora/pictora/pkg/config"
)

// Router wires the HTTP surface to the service dependencies
type Router struct {
	cfg    *config.Config
	db     *db.DB
	cache  *cache.Cache
	store  storage.ObjectStorage
	sender notify.Sender
}

// NewRouter creates a new router
func NewRouter(cfg *config.Config, database *db.DB, redisCache *cache.Cache, store storage.ObjectStorage, sender notify.Sender) *Router {
	return &Router{
		cfg:    cfg,
		db:     database,
		cache:  redisCache,
		store:  store,
		sender: sender,
	}
}

// SetupRoutes registers every route on the engine. Everything except
// the health check sits behind token auth.
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(tracingMiddleware())
	engine.Use(cors.Default())

	engine.GET("/health", r.health)

	if r.cfg.Storage.Backend == "local" {
		engine.Static("/storage", r.cfg.Storage.LocalPath)
	}

	repo := db.NewRepository(r.db.DB)
	loader := objects.NewPostLoader(repo, r.cache)

	posts := NewPostAPI(repo, loader, r.store, r.sender)
	comments := NewCommentAPI(repo, loader, r.sender)
	users := NewUserAPI(repo, r.store, r.sender)
	shares := NewShareAPI(repo, loader)
	analytics := NewAnalyticsAPI(repo, loader, r.sender)

	authed := engine.Group("/", auth.Middleware(&r.cfg.Auth))

	authed.GET("/user/me", users.Me)
	authed.PUT("/user/profile", users.UpdateProfile)
	authed.POST("/user/change-password", users.ChangePassword)
	authed.GET("/user/search", users.Search)
	authed.GET("/user/:id", users.Show)
	authed.POST("/user/:id/follow", users.Follow)
	authed.POST("/user/:id/unfollow", users.Unfollow)
	authed.GET("/user/:id/followers", users.Followers)
	authed.GET("/user/:id/following", users.Following)
	authed.POST("/update-fcm-token", users.UpdateFCMToken)

	authed.POST("/posts", posts.Create)
	authed.GET("/posts", posts.List)
	authed.GET("/posts/feed", posts.Feed)
	authed.GET("/posts/:id", posts.Show)
	authed.PUT("/posts/:id", posts.Update)
	authed.DELETE("/posts/:id", posts.Delete)
	authed.POST("/posts/:id/like", posts.Like)
	authed.POST("/posts/:id/unlike", posts.Unlike)
	authed.GET("/posts/:id/likes", posts.Likes)

	authed.GET("/posts/:id/comments", comments.List)
	authed.POST("/posts/:id/comments", comments.Create)
	authed.PUT("/comments/:id", comments.Update)
	authed.DELETE("/comments/:id", comments.Delete)

	authed.POST("/posts/:id/share", shares.Create)
	authed.GET("/posts/:id/shares", shares.List)
	authed.DELETE("/shares/:id", shares.Delete)

	authed.GET("/analytics", analytics.Index)
	authed.POST("/views", analytics.StoreView)
	authed.POST("/notifications", analytics.SendNotification)
}

func (r *Router) health(c *gin.Context) {
	status := gin.H{"status": "ok"}
	code := http.StatusOK

	if err := r.db.Health(c.Request.Context()); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if err := r.cache.Health(c.Request.Context()); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		status["status"] = "degraded"
		status["cache"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, status)
}
