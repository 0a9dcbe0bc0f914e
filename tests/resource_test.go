package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceCRUD(t *testing.T) {
	clearTables()

	owner := createTestUser(t, "owner@example.com", "segredo123", "user")
	ownerToken := tokenFor(t, owner)

	w := executeRequest(http.MethodPost, "/recursos", map[string]any{
		"title":       "Sala de Reuniao",
		"description": "Sala grande no segundo andar",
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
		Owner struct {
			ID int64 `json:"id"`
		} `json:"owner"`
	}
	decodeBody(t, w, &created)
	assert.Equal(t, "Sala de Reuniao", created.Title)
	assert.Equal(t, owner.ID, created.Owner.ID, "owner must come from the token")

	t.Run("get", func(t *testing.T) {
		w := executeRequest(http.MethodGet, resourcePath(created.ID), nil, ownerToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("get unknown id", func(t *testing.T) {
		w := executeRequest(http.MethodGet, resourcePath(9999), nil, ownerToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		w := executeRequest(http.MethodPatch, resourcePath(created.ID), map[string]any{
			"title": "Sala Azul",
		}, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated struct {
			Title string `json:"title"`
		}
		decodeBody(t, w, &updated)
		assert.Equal(t, "Sala Azul", updated.Title)
	})

	t.Run("missing title", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/recursos", map[string]any{
			"description": "sem titulo",
		}, ownerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := executeRequest(http.MethodGet, "/recursos", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := executeRequest(http.MethodDelete, resourcePath(created.ID), nil, ownerToken)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = executeRequest(http.MethodGet, resourcePath(created.ID), nil, ownerToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestResourcePermissions(t *testing.T) {
	clearTables()

	owner := createTestUser(t, "owner@example.com", "segredo123", "user")
	stranger := createTestUser(t, "stranger@example.com", "segredo123", "user")
	admin := createTestUser(t, "admin@example.com", "segredo123", "admin")

	resourceID := createTestResource(t, owner.ID, "Quadra 1", false)

	t.Run("stranger cannot update", func(t *testing.T) {
		w := executeRequest(http.MethodPatch, resourcePath(resourceID), map[string]any{
			"title": "Invadida",
		}, tokenFor(t, stranger))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		w := executeRequest(http.MethodDelete, resourcePath(resourceID), nil, tokenFor(t, stranger))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin can update", func(t *testing.T) {
		w := executeRequest(http.MethodPatch, resourcePath(resourceID), map[string]any{
			"is_blocked": true,
		}, tokenFor(t, admin))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated struct {
			IsBlocked bool `json:"is_blocked"`
		}
		decodeBody(t, w, &updated)
		assert.True(t, updated.IsBlocked)
	})
}

func TestResourceDeleteWithDependents(t *testing.T) {
	clearTables()

	owner := createTestUser(t, "owner@example.com", "segredo123", "user")
	resourceID := createTestResource(t, owner.ID, "Quadra 1", false)
	createTestSchedule(t, resourceID, hour(9), hour(18), true)

	w := executeRequest(http.MethodDelete, resourcePath(resourceID), nil, tokenFor(t, owner))
	assert.Equal(t, http.StatusConflict, w.Code, "resources with schedules cannot be removed")

	w = executeRequest(http.MethodGet, resourcePath(resourceID), nil, tokenFor(t, owner))
	assert.Equal(t, http.StatusOK, w.Code)
}
