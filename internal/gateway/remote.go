package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Remote is a thin HTTP client for the Firestore REST API v1. It
// handles API-key authentication, the wire value encoding, and the
// mapping of HTTP failures to the gateway error kinds. It performs no
// retry: a failed write surfaces to the user, who re-triggers the
// action.
type Remote struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger

	// tokenFn, when set, supplies a bearer id token so the store's
	// per-user security rules see the signed-in user.
	tokenFn func() string
}

// DefaultBaseURL returns the document root URL for a Firestore project.
func DefaultBaseURL(projectID string) string {
	return fmt.Sprintf(
		"https://firestore.googleapis.com/v1/projects/%s/databases/(default)/documents",
		projectID,
	)
}

// NewRemote creates a remote gateway rooted at baseURL. Latency bounds
// come from the store's own defaults; the client only caps a hung
// connection.
func NewRemote(baseURL, apiKey string, log *zap.Logger) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// SetTokenProvider installs a callback returning the current id token.
func (r *Remote) SetTokenProvider(fn func() string) {
	r.tokenFn = fn
}

// Create adds a document to the collection and returns its server-assigned id.
func (r *Remote) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	encoded, err := encodeFields(fields)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}

	var resp struct {
		Name string `json:"name"`
	}
	err = r.do(ctx, http.MethodPost, "/"+collection, nil,
		map[string]any{"fields": encoded}, &resp)
	if err != nil {
		return "", err
	}

	return path.Base(resp.Name), nil
}

// Read runs a structured query over the collection. The collection path
// splits into the parent document path and the trailing collection id,
// e.g. "users/u1/todos" queries collection "todos" under "users/u1".
func (r *Remote) Read(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	parent, collectionID := splitCollection(collection)

	query := map[string]any{
		"from": []any{map[string]any{"collectionId": collectionID}},
	}
	if len(filters) > 0 {
		where, err := encodeWhere(filters)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", collection, err)
		}
		query["where"] = where
	}

	queryPath := ":runQuery"
	if parent != "" {
		queryPath = "/" + parent + ":runQuery"
	}

	var resp []struct {
		Document *struct {
			Name   string         `json:"name"`
			Fields map[string]any `json:"fields"`
		} `json:"document"`
	}
	err := r.do(ctx, http.MethodPost, queryPath, nil,
		map[string]any{"structuredQuery": query}, &resp)
	if err != nil {
		return nil, err
	}

	var docs []Document
	for _, entry := range resp {
		if entry.Document == nil {
			// runQuery interleaves readTime-only entries; skip them.
			continue
		}
		fields, err := decodeFields(entry.Document.Fields)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", collection, err)
		}
		docs = append(docs, Document{
			ID:     path.Base(entry.Document.Name),
			Fields: fields,
		})
	}

	return docs, nil
}

// Update patches the named fields of an existing document. The
// currentDocument.exists precondition makes the store reject updates to
// missing documents, which surfaces here as ErrNotFound.
func (r *Remote) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	encoded, err := encodeFields(fields)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	params := url.Values{}
	params.Set("currentDocument.exists", "true")
	for field := range fields {
		params.Add("updateMask.fieldPaths", field)
	}

	return r.do(ctx, http.MethodPatch, "/"+collection+"/"+id, params,
		map[string]any{"fields": encoded}, nil)
}

// Delete removes a document, reporting ErrNotFound when it does not exist.
func (r *Remote) Delete(ctx context.Context, collection, id string) error {
	params := url.Values{}
	params.Set("currentDocument.exists", "true")

	return r.do(ctx, http.MethodDelete, "/"+collection+"/"+id, params, nil, nil)
}

// do builds the request, attaches auth, and maps the response onto
// result. Non-2xx statuses become ErrNotFound (404, and 409 from a
// failed exists precondition) or a BackendError carrying the store's
// native error body.
func (r *Remote) do(
	ctx context.Context,
	method string,
	reqPath string,
	params url.Values,
	body any,
	result any,
) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", r.apiKey)
	fullURL := r.baseURL + reqPath + "?" + params.Encode()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.tokenFn != nil {
		if token := r.tokenFn(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return &BackendError{Op: method, Path: reqPath, Err: err}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return &BackendError{Op: method, Path: reqPath, Status: resp.StatusCode, Err: readErr}
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("%s %s: %w", method, reqPath, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.log.Warn("document store call failed",
			zap.String("method", method),
			zap.String("path", reqPath),
			zap.Int("status", resp.StatusCode),
		)
		return &BackendError{
			Op:     method,
			Path:   reqPath,
			Status: resp.StatusCode,
			Body:   string(respBody),
		}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, reqPath, err)
	}
	return nil
}

// encodeWhere converts filters into a structured-query filter tree.
// Null comparisons need the unary operators; everything else is a plain
// field filter. Multiple predicates compose with AND.
func encodeWhere(filters []Filter) (map[string]any, error) {
	encoded := make([]any, 0, len(filters))
	for _, f := range filters {
		one, err := encodeFilter(f)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, one)
	}

	if len(encoded) == 1 {
		return encoded[0].(map[string]any), nil
	}
	return map[string]any{
		"compositeFilter": map[string]any{
			"op":      "AND",
			"filters": encoded,
		},
	}, nil
}

func encodeFilter(f Filter) (map[string]any, error) {
	fieldRef := map[string]any{"fieldPath": f.Field}

	if f.Value == nil {
		op := "IS_NULL"
		if f.Op == OpNotEquals {
			op = "IS_NOT_NULL"
		}
		return map[string]any{
			"unaryFilter": map[string]any{
				"op":    op,
				"field": fieldRef,
			},
		}, nil
	}

	op := "EQUAL"
	if f.Op == OpNotEquals {
		op = "NOT_EQUAL"
	}
	value, err := encodeValue(f.Value)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"fieldFilter": map[string]any{
			"field": fieldRef,
			"op":    op,
			"value": value,
		},
	}, nil
}

// splitCollection separates "users/u1/todos" into parent "users/u1" and
// collection id "todos". A top-level collection has an empty parent.
func splitCollection(collection string) (parent, collectionID string) {
	idx := strings.LastIndex(collection, "/")
	if idx < 0 {
		return "", collection
	}
	return collection[:idx], collection[idx+1:]
}
