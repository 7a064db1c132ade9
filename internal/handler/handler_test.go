package handler

import (
	"bytes"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Swethakotuluru11/user-dashboard/internal/auth"
	"github.com/Swethakotuluru11/user-dashboard/internal/middleware"
	"github.com/Swethakotuluru11/user-dashboard/internal/models"
	"github.com/Swethakotuluru11/user-dashboard/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testCookieName = "ud_session"

type testApp struct {
	db        *gorm.DB
	engine    *gin.Engine
	sessions  session.Store
	tokens    *auth.Service
	uploadDir string
}

// newTestApp wires the handlers onto a real engine with the same route table
// the router uses, backed by a throwaway sqlite file.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Session{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	sessions := session.NewGormStore(db)
	tokens := auth.NewService("test-secret", time.Hour)
	log := zap.NewNop()
	uploadDir := filepath.Join(dir, "uploads")

	r := gin.New()

	tmpl := template.New("")
	template.Must(tmpl.New("index.html").Parse(`dashboard {{ .username }}`))
	template.Must(tmpl.New("login.html").Parse(`login {{ .error }}`))
	template.Must(tmpl.New("register.html").Parse(`register {{ .error }}`))
	template.Must(tmpl.New("posts.html").Parse(`new post`))
	r.SetHTMLTemplate(tmpl)

	guard := middleware.NewGuard(testCookieName, sessions, tokens)

	pageHandler := NewPageHandler(db, log)
	authHandler := NewAuthHandler(db, tokens, sessions, testCookieName, 24*time.Hour, log)
	postHandler := NewPostHandler(db, uploadDir, "/uploads", log)
	exportHandler := NewExportHandler(db, log)
	userHandler := NewUserHandler(db, log)

	public := r.Group("", guard.RedirectIfAuthenticated())
	public.GET("/", pageHandler.Home)
	public.GET("/register", pageHandler.RegisterPage)
	public.GET("/login", pageHandler.LoginPage)

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	pages := r.Group("", guard.RequirePage())
	pages.GET("/index", pageHandler.Dashboard)
	pages.GET("/post", pageHandler.NewPostPage)

	api := r.Group("", guard.RequireAPI())
	api.GET("/posts", postHandler.ListOwn)
	api.GET("/posts/export/csv", exportHandler.ExportCSV)
	api.GET("/posts/export/xlsx", exportHandler.ExportXLSX)
	api.GET("/posts/:postId", postHandler.GetByID)
	api.POST("/posts", postHandler.Create)
	api.PUT("/posts/:id", postHandler.Update)
	api.DELETE("/posts/:postId", postHandler.Delete)

	users := r.Group("/api/users")
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.GetByID)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	return &testApp{
		db:        db,
		engine:    r,
		sessions:  sessions,
		tokens:    tokens,
		uploadDir: uploadDir,
	}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func getRequest(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func httptestDelete(target string) *http.Request {
	return httptest.NewRequest(http.MethodDelete, target, nil)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRequest builds a multipart form with text fields and an optional
// image attachment.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, imageName string, image []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %q: %v", k, err)
		}
	}
	if imageName != "" {
		fw, err := w.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(image); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func (a *testApp) register(t *testing.T, username, email, password, confirm string) *httptest.ResponseRecorder {
	t.Helper()
	return a.do(formRequest(http.MethodPost, "/register", url.Values{
		"username":        {username},
		"email":           {email},
		"password":        {password},
		"confirmPassword": {confirm},
	}))
}

// loginAs registers the user if needed, logs in, and returns the session
// cookie.
func (a *testApp) loginAs(t *testing.T, username, password string) *http.Cookie {
	t.Helper()

	var count int64
	if err := a.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count == 0 {
		rec := a.register(t, username, username+"@example.com", password, password)
		if rec.Code != http.StatusFound {
			t.Fatalf("register %q: status = %d, want %d", username, rec.Code, http.StatusFound)
		}
	}

	rec := a.do(formRequest(http.MethodPost, "/login", url.Values{
		"username": {username},
		"password": {password},
	}))
	if rec.Code != http.StatusFound {
		t.Fatalf("login %q: status = %d, want %d", username, rec.Code, http.StatusFound)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == testCookieName && ck.Value != "" {
			return ck
		}
	}
	t.Fatalf("login %q: no session cookie set", username)
	return nil
}

// createPost inserts a post through the API and returns its id.
func (a *testApp) createPost(t *testing.T, cookie *http.Cookie, title, text string) uint {
	t.Helper()
	req := multipartRequest(t, http.MethodPost, "/posts", map[string]string{
		"title": title,
		"text":  text,
	}, "", nil)
	req.AddCookie(cookie)
	rec := a.do(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var post models.Post
	if err := a.db.Where("title = ?", title).Order("id DESC").First(&post).Error; err != nil {
		t.Fatalf("fetch created post: %v", err)
	}
	return post.ID
}

func redirectLocation(t *testing.T, rec *httptest.ResponseRecorder) *url.URL {
	t.Helper()
	loc := rec.Header().Get("Location")
	if loc == "" {
		t.Fatalf("no Location header (status %d)", rec.Code)
	}
	u, err := url.Parse(loc)
	if err != nil {
		t.Fatalf("parse Location %q: %v", loc, err)
	}
	return u
}

func readBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	b, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}
