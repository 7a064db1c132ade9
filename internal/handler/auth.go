package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Swethakotuluru11/user-dashboard/internal/auth"
	"github.com/Swethakotuluru11/user-dashboard/internal/models"
	"github.com/Swethakotuluru11/user-dashboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthHandler covers register, login and logout.
type AuthHandler struct {
	DB         *gorm.DB
	Tokens     *auth.Service
	Sessions   session.Store
	CookieName string
	SessionTTL time.Duration
	Log        *zap.Logger
}

func NewAuthHandler(db *gorm.DB, tokens *auth.Service, sessions session.Store, cookieName string, sessionTTL time.Duration, log *zap.Logger) *AuthHandler {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthHandler{
		DB:         db,
		Tokens:     tokens,
		Sessions:   sessions,
		CookieName: cookieName,
		SessionTTL: sessionTTL,
		Log:        log,
	}
}

// redirectWithError sends the browser back to a page with an inline error
// marker in the query string.
func redirectWithError(c *gin.Context, page, msg string) {
	c.Redirect(http.StatusFound, page+"?error="+url.QueryEscape(msg))
}

// Register creates a user from the registration form and redirects to the
// login page. The password is persisted exactly as submitted.
func (h *AuthHandler) Register(c *gin.Context) {
	password := c.PostForm("password")
	confirm := c.PostForm("confirmPassword")

	if password != confirm {
		redirectWithError(c, "/register", "Passwords do not match")
		return
	}

	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))

	// uniqueness pre-check on username OR email
	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		h.Log.Error("register: check existing user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	if count > 0 {
		redirectWithError(c, "/register", "User already exists")
		return
	}

	user := models.User{
		Username:  username,
		Email:     email,
		Password:  password,
		FirstName: c.PostForm("firstName"),
		LastName:  c.PostForm("lastName"),
		Mobile:    c.PostForm("mobile"),
		Gender:    c.PostForm("gender"),
		Address:   c.PostForm("address"),
		Zipcode:   c.PostForm("zipcode"),
		Country:   c.PostForm("country"),
		City:      c.PostForm("city"),
		State:     c.PostForm("state"),
	}
	if dob := c.PostForm("dob"); dob != "" {
		if t, err := time.Parse("2006-01-02", dob); err == nil {
			user.DOB = &t
		}
	}

	if err := h.DB.Create(&user).Error; err != nil {
		h.Log.Error("register: create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

// Login checks the credentials, issues a token and stores it in a fresh
// session. JSON clients get the token back, browsers get a redirect.
func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	var user models.User
	if err := h.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			redirectWithError(c, "/login", "Incorrect username or password")
		} else {
			h.Log.Error("login: lookup user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		}
		return
	}

	// plaintext compare, same as the stored form
	if user.Password != password {
		redirectWithError(c, "/login", "Incorrect username or password")
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.Log.Error("login: issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	sid := uuid.NewString()
	if err := h.Sessions.Set(c.Request.Context(), sid, token, h.SessionTTL); err != nil {
		h.Log.Error("login: store session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.SetCookie(h.CookieName, sid, int(h.SessionTTL.Seconds()), "/", "", false, true)

	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.JSON(http.StatusOK, gin.H{"token": token})
		return
	}
	c.Redirect(http.StatusFound, "/index")
}

// Logout destroys the session. Store failures are logged but never block the
// redirect back to the login page.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid, err := c.Cookie(h.CookieName); err == nil && sid != "" {
		if err := h.Sessions.Destroy(c.Request.Context(), sid); err != nil {
			h.Log.Error("logout: destroy session", zap.Error(err))
		}
	}
	c.SetCookie(h.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}
