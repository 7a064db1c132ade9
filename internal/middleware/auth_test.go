package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Swethakotuluru11/user-dashboard/internal/auth"
	"github.com/Swethakotuluru11/user-dashboard/internal/models"
	"github.com/Swethakotuluru11/user-dashboard/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const cookieName = "ud_session"

func newGuardFixture(t *testing.T) (session.Store, *auth.Service, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	sessions := session.NewGormStore(db)
	tokens := auth.NewService("guard-secret", time.Hour)
	guard := NewGuard(cookieName, sessions, tokens)

	r := gin.New()
	r.GET("/api", guard.RequireAPI(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": CurrentClaims(c).Username})
	})
	r.GET("/page", guard.RequirePage(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return sessions, tokens, r
}

func get(r *gin.Engine, path, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: sid})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGuard_MissingSession(t *testing.T) {
	_, _, r := newGuardFixture(t)

	if rec := get(r, "/api", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("api without cookie: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if rec := get(r, "/api", "unknown-sid"); rec.Code != http.StatusUnauthorized {
		t.Errorf("api with unknown sid: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec := get(r, "/page", "")
	if rec.Code != http.StatusFound {
		t.Fatalf("page without cookie: status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("page redirect = %q, want /login", loc)
	}
}

func TestGuard_ValidSession(t *testing.T) {
	sessions, tokens, r := newGuardFixture(t)

	token, err := tokens.Issue(7, "alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if err := sessions.Set(context.Background(), "sid-1", token, time.Hour); err != nil {
		t.Fatalf("set session: %v", err)
	}

	rec := get(r, "/api", "sid-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("api: status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); body != `{"username":"alice"}` {
		t.Errorf("api body = %s, want alice identity", body)
	}

	if rec := get(r, "/page", "sid-1"); rec.Code != http.StatusOK {
		t.Errorf("page: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

// A session can outlive its token: the guard must reject the stale token even
// though the session row is still present.
func TestGuard_ExpiredToken(t *testing.T) {
	sessions, _, r := newGuardFixture(t)

	expired := auth.NewService("guard-secret", -time.Minute)
	token, err := expired.Issue(7, "alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if err := sessions.Set(context.Background(), "sid-1", token, time.Hour); err != nil {
		t.Fatalf("set session: %v", err)
	}

	if rec := get(r, "/api", "sid-1"); rec.Code != http.StatusUnauthorized {
		t.Errorf("api: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	rec := get(r, "/page", "sid-1")
	if rec.Code != http.StatusFound {
		t.Fatalf("page: status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("page redirect = %q, want /login", loc)
	}
}

func TestGuard_TamperedToken(t *testing.T) {
	sessions, _, r := newGuardFixture(t)

	other := auth.NewService("different-secret", time.Hour)
	token, err := other.Issue(7, "alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if err := sessions.Set(context.Background(), "sid-1", token, time.Hour); err != nil {
		t.Fatalf("set session: %v", err)
	}

	if rec := get(r, "/api", "sid-1"); rec.Code != http.StatusUnauthorized {
		t.Errorf("api: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
