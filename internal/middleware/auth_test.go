package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/clubhq/clubhub/backend/internal/utils"
)

const testCookie = "session"

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret-for-middleware-testing")
}

func newGatedRouter(requireAdmin bool) *gin.Engine {
	router := gin.New()
	router.Use(Identify(testCookie))
	chain := []gin.HandlerFunc{AuthRequired()}
	if requireAdmin {
		chain = append(chain, AdminRequired())
	}
	chain = append(chain, func(c *gin.Context) {
		caller := CallerFrom(c)
		c.JSON(200, gin.H{"email": caller.Email})
	})
	router.GET("/protected", chain...)
	return router
}

func request(router *gin.Engine, cookie string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthRequired_NoCookie(t *testing.T) {
	w := request(newGatedRouter(false), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthRequired_InvalidCookie(t *testing.T) {
	cases := []string{
		"garbage",
		"not.a.token",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.bad.signature",
	}

	for _, cookie := range cases {
		w := request(newGatedRouter(false), cookie)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("cookie %q: expected status %d, got %d", cookie, http.StatusUnauthorized, w.Code)
		}
	}
}

func TestAuthRequired_ValidCookie(t *testing.T) {
	token, err := utils.GenerateSessionToken("uid-1", "a@club.org", "Alice", "member", false, 1)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	w := request(newGatedRouter(false), token)
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

func TestAuthRequired_ExpiredCookie(t *testing.T) {
	token, _ := utils.GenerateSessionToken("uid-1", "a@club.org", "Alice", "member", false, -1)

	w := request(newGatedRouter(false), token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAdminRequired_Member(t *testing.T) {
	token, _ := utils.GenerateSessionToken("uid-1", "a@club.org", "Alice", "member", false, 1)

	w := request(newGatedRouter(true), token)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestAdminRequired_Admin(t *testing.T) {
	token, _ := utils.GenerateSessionToken("uid-2", "prez@club.org", "Prez", "president", true, 1)

	w := request(newGatedRouter(true), token)
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestCallerFrom_Anonymous(t *testing.T) {
	router := gin.New()
	router.Use(Identify(testCookie))
	router.GET("/open", func(c *gin.Context) {
		if CallerFrom(c) != nil {
			c.JSON(500, gin.H{"msg": "unexpected caller"})
			return
		}
		c.JSON(200, gin.H{"msg": "anonymous ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/open", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("anonymous request should pass Identify, got %d", w.Code)
	}
}
