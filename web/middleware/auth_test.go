package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hanlovechurch/church-ui/database/model"
	"github.com/hanlovechurch/church-ui/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(sessions.Sessions("session", cookie.NewStore([]byte("test-secret"))))

	engine.POST("/login/:role", func(c *gin.Context) {
		_ = session.SetLoginUser(c, &model.User{
			Id:       1,
			Username: "tester",
			Role:     c.Param("role"),
		})
		c.Status(http.StatusOK)
	})
	engine.GET("/member", SessionAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	engine.GET("/admin", SessionAuth(), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

// login performs the fake login and returns the session cookies.
func login(t *testing.T, engine *gin.Engine, role string) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login/"+role, nil)
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d", w.Code)
	}
	return w.Result().Cookies()
}

func get(engine *gin.Engine, path string, cookies []*http.Cookie) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestSessionAuth(t *testing.T) {
	engine := newTestRouter()

	if code := get(engine, "/member", nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous /member = %d, want 401", code)
	}

	cookies := login(t, engine, model.RoleUser)
	if code := get(engine, "/member", cookies); code != http.StatusOK {
		t.Fatalf("logged-in /member = %d, want 200", code)
	}
}

func TestRequireAdmin(t *testing.T) {
	engine := newTestRouter()

	// anonymous callers are told to log in, not that they lack rights
	if code := get(engine, "/admin", nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous /admin = %d, want 401", code)
	}

	userCookies := login(t, engine, model.RoleUser)
	if code := get(engine, "/admin", userCookies); code != http.StatusForbidden {
		t.Fatalf("member /admin = %d, want 403", code)
	}

	adminCookies := login(t, engine, model.RoleAdmin)
	if code := get(engine, "/admin", adminCookies); code != http.StatusOK {
		t.Fatalf("admin /admin = %d, want 200", code)
	}
}
