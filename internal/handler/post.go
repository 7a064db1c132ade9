package handler

import (
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Swethakotuluru11/user-dashboard/internal/middleware"
	"github.com/Swethakotuluru11/user-dashboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostHandler covers the owner-scoped post CRUD and image uploads.
type PostHandler struct {
	DB         *gorm.DB
	UploadDir  string
	PublicPath string // URL prefix under which UploadDir is served
	Log        *zap.Logger
}

func NewPostHandler(db *gorm.DB, uploadDir, publicPath string, log *zap.Logger) *PostHandler {
	return &PostHandler{
		DB:         db,
		UploadDir:  uploadDir,
		PublicPath: publicPath,
		Log:        log,
	}
}

// saveImage writes the upload under a generated name and returns its public
// URL. Generated names rule out collisions in the shared directory.
func (h *PostHandler) saveImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, name)); err != nil {
		return "", err
	}
	return path.Join(h.PublicPath, name), nil
}

// Create stores a new post for the caller. The image is optional; title and
// text are not.
func (h *PostHandler) Create(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	title := c.PostForm("title")
	text := c.PostForm("text")
	if strings.TrimSpace(title) == "" || strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a valid title and content"})
		return
	}

	var imageURL string
	if file, err := c.FormFile("image"); err == nil {
		imageURL, err = h.saveImage(c, file)
		if err != nil {
			h.Log.Error("create post: save image", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error saving post"})
			return
		}
	}

	post := models.Post{
		UserID:   claims.UserID,
		Title:    title,
		Text:     text,
		ImageURL: imageURL,
	}
	// on failure here an already saved image is left orphaned on disk
	if err := h.DB.Create(&post).Error; err != nil {
		h.Log.Error("create post: save", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error saving post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"postId":  post.ID,
	})
}

// ListOwn returns the caller's posts, newest first. An empty result is a 404,
// not an empty list.
func (h *PostHandler) ListOwn(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	var posts []models.Post
	if err := h.DB.Where("user_id = ?", claims.UserID).
		Order("id DESC").
		Find(&posts).Error; err != nil {
		h.Log.Error("list posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching posts"})
		return
	}

	if len(posts) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No posts found for this user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetByID returns a post by id. The owner is not rechecked here: any
// authenticated caller can read any post. Known gap, kept until stakeholders
// decide otherwise.
func (h *PostHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("postId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID format"})
		return
	}

	var post models.Post
	if err := h.DB.First(&post, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
			return
		}
		h.Log.Error("get post", zap.Error(err))
		// this endpoint echoes the raw error, unlike the rest of the surface
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching post", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, post)
}

// Update replaces the supplied fields of a post looked up by id only. Like
// GetByID it does not recheck the owner. Known gap, kept deliberately.
func (h *PostHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID format"})
		return
	}

	var post models.Post
	if err := h.DB.First(&post, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.Log.Error("update post: lookup", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating post"})
		return
	}

	if title := c.PostForm("title"); title != "" {
		post.Title = title
	}
	if text := c.PostForm("text"); text != "" {
		post.Text = text
	}
	if file, err := c.FormFile("image"); err == nil {
		imageURL, err := h.saveImage(c, file)
		if err != nil {
			h.Log.Error("update post: save image", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating post"})
			return
		}
		post.ImageURL = imageURL
	}

	if err := h.DB.Save(&post).Error; err != nil {
		h.Log.Error("update post: save", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

// Delete removes a post by id AND owner. A non-owner deleting an existing
// post gets the same 404 as a missing id.
func (h *PostHandler) Delete(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	id, err := strconv.Atoi(c.Param("postId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID format"})
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, claims.UserID).Delete(&models.Post{})
	if res.Error != nil {
		h.Log.Error("delete post", zap.Error(res.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting post"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
