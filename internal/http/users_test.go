package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/flashcards/internal/entities"
)

func TestUsersController(t *testing.T) {
	t.Run("registers and fetches a user", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t, nil)
		defer cleanup()

		w := doJSON(t, router, "POST", "/api/users", map[string]any{"username": "alice", "password": "correct-horse"})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "correct-horse")
		user := decode[entities.User](t, w)
		assert.Equal(t, "alice", user.Username)

		w = doJSON(t, router, "GET", fmt.Sprintf("/api/users/%d", user.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", decode[entities.User](t, w).Username)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t, nil)
		defer cleanup()

		body := map[string]any{"username": "bob", "password": "correct-horse"}
		require.Equal(t, http.StatusCreated, doJSON(t, router, "POST", "/api/users", body).Code)

		w := doJSON(t, router, "POST", "/api/users", body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("weak input is rejected", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t, nil)
		defer cleanup()

		w := doJSON(t, router, "POST", "/api/users", map[string]any{"username": "carol", "password": "short"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, router, "POST", "/api/users", map[string]any{"username": "no spaces", "password": "correct-horse"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, router, "POST", "/api/users", map[string]any{"username": "dave"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"password"`)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		router, _, cleanup := setupTestRouter(t, nil)
		defer cleanup()

		w := doJSON(t, router, "GET", "/api/users/99", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
