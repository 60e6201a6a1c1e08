package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/flashcards/internal/auth"
	"github.com/mrlokans/flashcards/internal/config"
	"github.com/mrlokans/flashcards/internal/database"
	"github.com/mrlokans/flashcards/internal/entities"
)

func setupTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewSQLite(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

// setupTestRouter builds the full router in no-auth mode acting as user 1.
func setupTestRouter(t *testing.T, cleanup CleanupEnqueuer) (*gin.Engine, *database.Database, func()) {
	t.Helper()
	db, dbCleanup := setupTestDB(t)

	authCfg := config.Auth{Mode: config.AuthModeNone, BcryptCost: bcrypt.MinCost, DefaultUserID: 1}
	router := NewRouter(RouterConfig{
		Database:      db,
		AuthService:   auth.NewService(db, authCfg),
		DefaultUserID: 1,
		Cleanup:       cleanup,
		Version:       "test",
	})
	return router, db, dbCleanup
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func seedCard(t *testing.T, db *database.Database, card entities.Flashcard) entities.Flashcard {
	t.Helper()
	require.NoError(t, db.CreateFlashcard(&card))
	return card
}

func uintPtr(v uint) *uint {
	return &v
}

type recordingEnqueuer struct {
	mu      sync.Mutex
	reasons []string
	err     error
}

func (r *recordingEnqueuer) EnqueueOrphanCleanup(reason string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
	return "task-1", r.err
}
