package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"learn-ease-backend/internal/config"
	"learn-ease-backend/internal/identity"
	"learn-ease-backend/utils"
)

func newAuthRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewAuthMiddleware(cfg).RequireAuth())
	router.GET("/whoami", func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id.Hex()})
	})
	return router
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	router := newAuthRouter(t, &config.Config{JWTSecret: "secret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	router := newAuthRouter(t, &config.Config{JWTSecret: "secret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthAcceptsHeaderToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	router := newAuthRouter(t, cfg)

	userID := identity.New()
	token, err := utils.GenerateJWT(userID.Hex(), "a@b.c", cfg.JWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if want := `"user_id":"` + userID.Hex() + `"`; !strings.Contains(w.Body.String(), want) {
		t.Errorf("response %s does not contain %s", w.Body.String(), want)
	}
}

func TestRequireAuthAcceptsCookieToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	router := newAuthRouter(t, cfg)

	token, err := utils.GenerateJWT(identity.New().Hex(), "a@b.c", cfg.JWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	router := newAuthRouter(t, &config.Config{JWTSecret: "secret"})

	token, err := utils.GenerateJWT(identity.New().Hex(), "a@b.c", "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
