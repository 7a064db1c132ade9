package handler

import (
	"net/http"

	"github.com/Swethakotuluru11/user-dashboard/internal/middleware"
	"github.com/Swethakotuluru11/user-dashboard/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PageHandler renders the HTML pages.
type PageHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewPageHandler(db *gorm.DB, log *zap.Logger) *PageHandler {
	return &PageHandler{DB: db, Log: log}
}

// Home is the unauthenticated landing page.
func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"username": nil,
		"posts":    nil,
	})
}

func (h *PageHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"error": c.Query("error"),
	})
}

func (h *PageHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"error": c.Query("error"),
	})
}

// Dashboard renders the caller's posts. Page-gated.
func (h *PageHandler) Dashboard(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	var posts []models.Post
	if err := h.DB.Where("user_id = ?", claims.UserID).
		Order("id DESC").
		Find(&posts).Error; err != nil {
		h.Log.Error("dashboard: fetch posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"username": claims.Username,
		"posts":    posts,
	})
}

// NewPostPage renders the create-post form. Page-gated.
func (h *PageHandler) NewPostPage(c *gin.Context) {
	c.HTML(http.StatusOK, "posts.html", gin.H{
		"username": middleware.CurrentClaims(c).Username,
	})
}
