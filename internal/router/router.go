package router

import (
	"time"

	"github.com/Swethakotuluru11/user-dashboard/internal/auth"
	"github.com/Swethakotuluru11/user-dashboard/internal/config"
	"github.com/Swethakotuluru11/user-dashboard/internal/handler"
	"github.com/Swethakotuluru11/user-dashboard/internal/middleware"
	"github.com/Swethakotuluru11/user-dashboard/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine, templates, static resources and the
// full route table.
func SetupRouter(cfg *config.Config, db *gorm.DB, sessions session.Store, tokens *auth.Service, log *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	// uploaded images are served statically
	r.Static(cfg.Upload.PublicPath, cfg.Upload.Dir)
	r.LoadHTMLGlob("web/templates/*")

	guard := middleware.NewGuard(cfg.Session.CookieName, sessions, tokens)
	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour

	pageHandler := handler.NewPageHandler(db, log)
	authHandler := handler.NewAuthHandler(db, tokens, sessions, cfg.Session.CookieName, sessionTTL, log)
	postHandler := handler.NewPostHandler(db, cfg.Upload.Dir, cfg.Upload.PublicPath, log)
	exportHandler := handler.NewExportHandler(db, log)
	userHandler := handler.NewUserHandler(db, log)

	// public pages; already-authenticated browsers go straight to the dashboard
	public := r.Group("", guard.RedirectIfAuthenticated())
	public.GET("/", pageHandler.Home)
	public.GET("/register", pageHandler.RegisterPage)
	public.GET("/login", pageHandler.LoginPage)

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// page-gated views
	pages := r.Group("", guard.RequirePage())
	pages.GET("/index", pageHandler.Dashboard)
	pages.GET("/post", pageHandler.NewPostPage)

	// API-gated post endpoints
	api := r.Group("", guard.RequireAPI())
	api.GET("/posts", postHandler.ListOwn)
	api.GET("/posts/export/csv", exportHandler.ExportCSV)
	api.GET("/posts/export/xlsx", exportHandler.ExportXLSX)
	api.GET("/posts/:postId", postHandler.GetByID)
	api.POST("/posts", postHandler.Create)
	api.PUT("/posts/:id", postHandler.Update)
	api.DELETE("/posts/:postId", postHandler.Delete)

	// administrative user CRUD; no guard today, flagged for stakeholders
	users := r.Group("/api/users")
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.GetByID)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	return r
}
