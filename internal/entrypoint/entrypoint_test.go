package entrypoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/flashcards/internal/config"
	"github.com/mrlokans/flashcards/internal/entities"
	"github.com/mrlokans/flashcards/internal/tasks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.Database = config.Database{Driver: config.DriverSQLite, Path: filepath.Join(dir, "cards.db"), LogLevel: "silent"}
	cfg.Auth = config.Auth{Mode: config.AuthModeNone, DefaultUserID: 1, BcryptCost: 4}
	cfg.Cleanup = config.Cleanup{Enabled: true, Schedule: "30 3 * * *"}
	cfg.Global.ShutdownTimeoutInSeconds = 1
	return cfg
}

func listCards(t *testing.T, handler http.Handler) []entities.Flashcard {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var cards []entities.Flashcard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	return cards
}

func TestNewApp_SeedsEmbeddedDeck(t *testing.T) {
	cfg := testConfig(t)

	app, err := NewApp(cfg, "test")
	require.NoError(t, err)
	defer app.Close()

	cards := listCards(t, app.Handler)
	assert.NotEmpty(t, cards)
	for _, c := range cards {
		assert.False(t, c.IsCustom)
	}

	assert.Nil(t, app.TaskClient)
	require.NotNil(t, app.Scheduler)

	app.Start(context.Background())
	assert.True(t, app.Scheduler.IsRunning())
	app.Shutdown(context.Background())
	assert.False(t, app.Scheduler.IsRunning())
}

func TestNewApp_SeedPathAndRestart(t *testing.T) {
	cfg := testConfig(t)
	deck := filepath.Join(t.TempDir(), "deck.yaml")
	require.NoError(t, os.WriteFile(deck, []byte(`
- question: What is a monitor?
  answer: A lock with a wait set
  category: Multithreading
  difficulty: medium
`), 0o644))
	cfg.Seed.Path = deck

	app, err := NewApp(cfg, "test")
	require.NoError(t, err)
	assert.Len(t, listCards(t, app.Handler), 1)
	app.Close()

	// seeding only happens into an empty table
	app, err = NewApp(cfg, "test")
	require.NoError(t, err)
	defer app.Close()
	assert.Len(t, listCards(t, app.Handler), 1)
}

func TestNewApp_BadSeedPathStillStarts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Seed.Path = filepath.Join(t.TempDir(), "missing.json")

	app, err := NewApp(cfg, "test")
	require.NoError(t, err)
	defer app.Close()
	assert.Empty(t, listCards(t, app.Handler))
}

func TestNewApp_WithTaskQueue(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tasks = config.Tasks{Enabled: true, Workers: 1}

	app, err := NewApp(cfg, "test")
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.TaskClient)
	_, err = os.Stat(tasks.TasksDBPath(cfg.Database.Path))
	assert.NoError(t, err)

	app.Start(context.Background())
	require.NoError(t, app.Scheduler.RunNow())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app.Shutdown(ctx)
}

func TestNewApp_LocalAuthRequiresLogin(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Mode = config.AuthModeLocal

	app, err := NewApp(cfg, "test")
	require.NoError(t, err)
	defer app.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/progress/1", nil)
	w := httptest.NewRecorder()
	app.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	app.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
