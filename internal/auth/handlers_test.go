package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/flashcards/internal/config"
)

func setupAuthRouter(t *testing.T, mode config.AuthMode) (*gin.Engine, *Service, func()) {
	gin.SetMode(gin.TestMode)
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	cfg := config.Auth{
		Mode:            mode,
		SessionLifetime: time.Hour,
		BcryptCost:      bcrypt.MinCost,
		DefaultUserID:   1,
	}
	svc := NewService(newMemoryUsers(), cfg)
	sessions, err := NewSessionManager(sqlDB, cfg)
	require.NoError(t, err)

	router := gin.New()
	router.Use(sessions.SessionLoadSave())
	router.Use(NewMiddleware(svc, sessions, cfg).Handler())
	NewAuthController(svc, sessions, NewRateLimiter(RateLimitConfig{MaxAttempts: 2})).RegisterRoutes(router)
	router.GET("/api/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetUserID(c), "authType": GetAuthType(c)})
	})
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	cleanup := func() {
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return router, svc, cleanup
}

func login(t *testing.T, router *gin.Engine, username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddleware_NoAuthInjectsDefaultUser(t *testing.T) {
	router, _, cleanup := setupAuthRouter(t, config.AuthModeNone)
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":1,"authType":"none"}`, w.Body.String())
}

func TestMiddleware_LocalRequiresSession(t *testing.T) {
	router, _, cleanup := setupAuthRouter(t, config.AuthModeLocal)
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthController_LoginSessionLogout(t *testing.T) {
	router, svc, cleanup := setupAuthRouter(t, config.AuthModeLocal)
	defer cleanup()

	user, err := svc.Register("alice", "password123")
	require.NoError(t, err)

	w := login(t, router, "alice", "password123")
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var me map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, float64(user.ID), me["id"])
	assert.NotContains(t, me, "password")

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_LoginFailuresAreRateLimited(t *testing.T) {
	router, svc, cleanup := setupAuthRouter(t, config.AuthModeLocal)
	defer cleanup()

	_, err := svc.Register("alice", "password123")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, login(t, router, "alice", "nope-nope").Code)
	assert.Equal(t, http.StatusUnauthorized, login(t, router, "alice", "nope-nope").Code)
	assert.Equal(t, http.StatusTooManyRequests, login(t, router, "alice", "password123").Code)
}

func TestAuthController_LoginRequiresBody(t *testing.T) {
	router, _, cleanup := setupAuthRouter(t, config.AuthModeLocal)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
