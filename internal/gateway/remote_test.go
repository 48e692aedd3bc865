package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRemote(t *testing.T, handler http.HandlerFunc) *Remote {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemote(srv.URL, "test-key", zap.NewNop())
}

func TestRemoteCreate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	r := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		gotKey = req.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(req.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"name": "projects/p/databases/(default)/documents/users/u1/todos/abc123",
		})
	})

	id, err := r.Create(context.Background(), "users/u1/todos", map[string]any{
		"title": "buy milk",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
	assert.Equal(t, "/users/u1/todos", gotPath)
	assert.Equal(t, "test-key", gotKey)

	fields := gotBody["fields"].(map[string]any)
	assert.Equal(t, map[string]any{"stringValue": "buy milk"}, fields["title"])
}

func TestRemoteReadRunsStructuredQuery(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	r := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		require.NoError(t, json.NewDecoder(req.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode([]any{
			map[string]any{
				"document": map[string]any{
					"name": ".../todos/id1",
					"fields": map[string]any{
						"title": map[string]any{"stringValue": "first"},
					},
				},
			},
			// readTime-only entry, as runQuery emits for empty batches.
			map[string]any{"readTime": "2024-01-05T00:00:00Z"},
		})
	})

	docs, err := r.Read(context.Background(), "users/u1/todos",
		Equals("date", nil), NotEquals("completed", true))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "id1", docs[0].ID)
	assert.Equal(t, "first", docs[0].Fields["title"])

	assert.Equal(t, "/users/u1:runQuery", gotPath)

	query := gotBody["structuredQuery"].(map[string]any)
	from := query["from"].([]any)[0].(map[string]any)
	assert.Equal(t, "todos", from["collectionId"])

	// Two predicates compose into an AND composite; the nil comparison
	// uses the unary IS_NULL form.
	composite := query["where"].(map[string]any)["compositeFilter"].(map[string]any)
	assert.Equal(t, "AND", composite["op"])
	filters := composite["filters"].([]any)
	require.Len(t, filters, 2)

	unary := filters[0].(map[string]any)["unaryFilter"].(map[string]any)
	assert.Equal(t, "IS_NULL", unary["op"])

	fieldFilter := filters[1].(map[string]any)["fieldFilter"].(map[string]any)
	assert.Equal(t, "NOT_EQUAL", fieldFilter["op"])
}

func TestRemoteUpdateSendsMaskAndPrecondition(t *testing.T) {
	var gotMethod string
	var gotQuery map[string][]string

	r := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		gotMethod = req.Method
		gotQuery = req.URL.Query()
		w.Write([]byte("{}"))
	})

	err := r.Update(context.Background(), "users/u1/todos", "id1", map[string]any{
		"completed": true,
		"title":     "renamed",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, []string{"true"}, gotQuery["currentDocument.exists"])
	assert.ElementsMatch(t, []string{"completed", "title"}, gotQuery["updateMask.fieldPaths"])
}

func TestRemoteUpdateMissingDocument(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusConflict} {
		r := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(status)
		})

		err := r.Update(context.Background(), "c", "missing", map[string]any{"title": "x"})
		assert.True(t, errors.Is(err, ErrNotFound), "status %d", status)
	}
}

func TestRemoteDelete(t *testing.T) {
	var gotMethod, gotPath string

	r := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		gotMethod = req.Method
		gotPath = req.URL.Path
		w.Write([]byte("{}"))
	})

	require.NoError(t, r.Delete(context.Background(), "users/u1/todos", "id1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/users/u1/todos/id1", gotPath)
}

func TestRemoteServerErrorBecomesBackendError(t *testing.T) {
	r := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom"}}`))
	})

	_, err := r.Read(context.Background(), "users/u1/todos")
	require.Error(t, err)

	var backendErr *BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, http.StatusInternalServerError, backendErr.Status)
	assert.Contains(t, backendErr.Body, "boom")
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestRemoteTransportErrorBecomesBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))
	srv.Close()

	r := NewRemote(srv.URL, "test-key", zap.NewNop())
	_, err := r.Read(context.Background(), "c")

	var backendErr *BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.NotNil(t, backendErr.Unwrap())
}

func TestRemoteSendsBearerToken(t *testing.T) {
	var gotAuth string
	r := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		w.Write([]byte("[]"))
	})
	r.SetTokenProvider(func() string { return "id-token" })

	_, err := r.Read(context.Background(), "users/u1/todos")
	require.NoError(t, err)
	assert.Equal(t, "Bearer id-token", gotAuth)
}

func TestSplitCollection(t *testing.T) {
	parent, id := splitCollection("users/u1/todos")
	assert.Equal(t, "users/u1", parent)
	assert.Equal(t, "todos", id)

	parent, id = splitCollection("todos")
	assert.Empty(t, parent)
	assert.Equal(t, "todos", id)
}
