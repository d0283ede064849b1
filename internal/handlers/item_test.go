package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/item-manager/internal/handlers"
	"github.com/campushub/item-manager/internal/models"
	"github.com/campushub/item-manager/internal/repository"
	"github.com/campushub/item-manager/internal/testhelpers"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, *repository.ItemRepository) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	repo := repository.NewItemRepository(db, testhelpers.NewTestLogger())
	handler := handlers.NewItemHandler(repo, nil, testhelpers.NewTestLogger())

	router := gin.New()
	router.POST("/api/v1/items", handler.Create)
	router.GET("/api/v1/items", handler.List)
	router.GET("/api/v1/items/:id", handler.GetByID)
	router.PATCH("/api/v1/items/:id", handler.Update)
	router.DELETE("/api/v1/items/:id", handler.Delete)
	return router, repo
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decodeItem(t *testing.T, env envelope) models.Item {
	t.Helper()
	var item models.Item
	require.NoError(t, json.Unmarshal(env.Data, &item))
	return item
}

func createPayload() map[string]any {
	return map[string]any{
		"title":       "Robotics club wins regional championship",
		"source":      map[string]any{"name": "Engineering Weekly"},
		"publishedAt": "2025-03-01T09:00:00Z",
		"url":         "https://example.edu/news/robotics",
		"summary":     "First place with an autonomous picker.",
		"tags":        []string{"robotics", "competition"},
	}
}

func TestItemHandler_Create(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/items", createPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	env := decodeEnvelope(t, w)
	assert.Equal(t, "ok", env.Status)

	item := decodeItem(t, env)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Robotics club wins regional championship", item.Title)
	assert.Equal(t, "Engineering Weekly", item.Source.Name)
	assert.Equal(t, models.StringList{"robotics", "competition"}, item.Tags)
}

func TestItemHandler_Create_RoundTrip(t *testing.T) {
	router, _ := setupRouter(t)

	payload := createPayload()
	created := decodeItem(t, decodeEnvelope(t, doRequest(router, http.MethodPost, "/api/v1/items", payload)))

	w := doRequest(router, http.MethodGet, "/api/v1/items/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	fetched := decodeItem(t, decodeEnvelope(t, w))
	assert.Equal(t, created, fetched)
	assert.Equal(t, payload["title"], fetched.Title)
	assert.Equal(t, payload["publishedAt"], fetched.PublishedAt)
	assert.Equal(t, payload["url"], fetched.URL)
	assert.Equal(t, payload["summary"], fetched.Summary)
}

func TestItemHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{
			name:   "missing title",
			mutate: func(p map[string]any) { delete(p, "title") },
		},
		{
			name:   "empty title",
			mutate: func(p map[string]any) { p["title"] = "" },
		},
		{
			name:   "missing source",
			mutate: func(p map[string]any) { delete(p, "source") },
		},
		{
			name:   "empty source name",
			mutate: func(p map[string]any) { p["source"] = map[string]any{"name": ""} },
		},
		{
			name:   "missing url",
			mutate: func(p map[string]any) { delete(p, "url") },
		},
		{
			name:   "publishedAt with numeric offset",
			mutate: func(p map[string]any) { p["publishedAt"] = "2025-03-01T09:00:00+00:00" },
		},
		{
			name:   "publishedAt without zone",
			mutate: func(p map[string]any) { p["publishedAt"] = "2025-03-01T09:00:00" },
		},
		{
			name:   "tags not a list",
			mutate: func(p map[string]any) { p["tags"] = "not-a-list" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter(t)

			payload := createPayload()
			tt.mutate(payload)

			w := doRequest(router, http.MethodPost, "/api/v1/items", payload)
			require.Equal(t, http.StatusBadRequest, w.Code)

			env := decodeEnvelope(t, w)
			assert.Equal(t, "error", env.Status)
			require.NotNil(t, env.Error)
			assert.Equal(t, handlers.CodeValidationError, env.Error.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestItemHandler_Create_ValidZSuffixAccepted(t *testing.T) {
	router, _ := setupRouter(t)

	payload := createPayload()
	payload["publishedAt"] = "2025-03-01T09:00:00Z"

	w := doRequest(router, http.MethodPost, "/api/v1/items", payload)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestItemHandler_GetByID_NotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/items/no-such-id", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	env := decodeEnvelope(t, w)
	assert.Equal(t, "error", env.Status)
	require.NotNil(t, env.Error)
	assert.Equal(t, handlers.CodeNotFound, env.Error.Code)
}

func TestItemHandler_List(t *testing.T) {
	router, repo := setupRouter(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		input := models.ItemInput{
			Title:       fmt.Sprintf("Item %d", i),
			Source:      &models.ItemSource{Name: "Campus Times"},
			PublishedAt: fmt.Sprintf("2025-03-%02dT09:00:00Z", i+1),
			URL:         fmt.Sprintf("https://example.edu/news/%d", i),
			Summary:     "",
			Tags:        models.StringList{},
		}
		_, err := repo.Create(ctx, &input)
		require.NoError(t, err)
	}

	w := doRequest(router, http.MethodGet, "/api/v1/items?limit=5&offset=0", nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	assert.Equal(t, "ok", env.Status)

	var items []models.Item
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 5)
	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, items[i-1].PublishedAt, items[i].PublishedAt)
	}
}

func TestItemHandler_List_EmptyStore(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/items", nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	assert.Equal(t, "ok", env.Status)
	assert.Equal(t, "[]", string(env.Data), "empty result still uses the success envelope")
}

func TestItemHandler_List_ParameterConstraints(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "limit zero", query: "limit=0"},
		{name: "limit above max", query: "limit=21"},
		{name: "limit not an integer", query: "limit=abc"},
		{name: "negative offset", query: "offset=-1"},
		{name: "offset not an integer", query: "offset=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter(t)

			w := doRequest(router, http.MethodGet, "/api/v1/items?"+tt.query, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)

			env := decodeEnvelope(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, handlers.CodeValidationError, env.Error.Code)
		})
	}
}

func TestItemHandler_Update_Partial(t *testing.T) {
	router, _ := setupRouter(t)

	created := decodeItem(t, decodeEnvelope(t, doRequest(router, http.MethodPost, "/api/v1/items", createPayload())))

	w := doRequest(router, http.MethodPatch, "/api/v1/items/"+created.ID,
		map[string]any{"title": "Updated title"})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decodeItem(t, decodeEnvelope(t, w))
	assert.Equal(t, "Updated title", updated.Title)
	assert.Equal(t, created.URL, updated.URL)
	assert.Equal(t, created.PublishedAt, updated.PublishedAt)
	assert.Equal(t, created.ID, updated.ID)
}

func TestItemHandler_Update_RejectsID(t *testing.T) {
	router, _ := setupRouter(t)

	created := decodeItem(t, decodeEnvelope(t, doRequest(router, http.MethodPost, "/api/v1/items", createPayload())))

	// Even the item's own id is rejected: the field is not client-settable.
	for _, id := range []string{"x", created.ID} {
		w := doRequest(router, http.MethodPatch, "/api/v1/items/"+created.ID,
			map[string]any{"id": id, "title": "new"})
		require.Equal(t, http.StatusBadRequest, w.Code)

		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, handlers.CodeValidationError, env.Error.Code)
		assert.Contains(t, env.Error.Message, "id")
	}
}

func TestItemHandler_Update_EmptyBodyIsNoOp(t *testing.T) {
	router, _ := setupRouter(t)

	created := decodeItem(t, decodeEnvelope(t, doRequest(router, http.MethodPost, "/api/v1/items", createPayload())))

	w := doRequest(router, http.MethodPatch, "/api/v1/items/"+created.ID, "{}")
	require.Equal(t, http.StatusOK, w.Code)

	got := decodeItem(t, decodeEnvelope(t, w))
	assert.Equal(t, created, got)
}

func TestItemHandler_Update_ValidationFailure(t *testing.T) {
	router, _ := setupRouter(t)

	created := decodeItem(t, decodeEnvelope(t, doRequest(router, http.MethodPost, "/api/v1/items", createPayload())))

	w := doRequest(router, http.MethodPatch, "/api/v1/items/"+created.ID,
		map[string]any{"publishedAt": "2025-03-01T09:00:00+00:00"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, handlers.CodeValidationError, env.Error.Code)
}

func TestItemHandler_Update_NotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodPatch, "/api/v1/items/no-such-id",
		map[string]any{"title": "new"})
	require.Equal(t, http.StatusNotFound, w.Code)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, handlers.CodeNotFound, env.Error.Code)
}

func TestItemHandler_Update_Idempotent(t *testing.T) {
	router, _ := setupRouter(t)

	created := decodeItem(t, decodeEnvelope(t, doRequest(router, http.MethodPost, "/api/v1/items", createPayload())))

	body := map[string]any{"summary": "rewritten", "tags": []string{"a"}}

	first := decodeItem(t, decodeEnvelope(t, doRequest(router, http.MethodPatch, "/api/v1/items/"+created.ID, body)))
	second := decodeItem(t, decodeEnvelope(t, doRequest(router, http.MethodPatch, "/api/v1/items/"+created.ID, body)))

	assert.Equal(t, first, second)
}

func TestItemHandler_Delete(t *testing.T) {
	router, _ := setupRouter(t)

	created := decodeItem(t, decodeEnvelope(t, doRequest(router, http.MethodPost, "/api/v1/items", createPayload())))

	w := doRequest(router, http.MethodDelete, "/api/v1/items/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes(), "delete success has no body")

	w = doRequest(router, http.MethodGet, "/api/v1/items/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemHandler_Delete_NotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodDelete, "/api/v1/items/no-such-id", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, handlers.CodeNotFound, env.Error.Code)
}
