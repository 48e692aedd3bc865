package gateway

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Mock is the in-memory stand-in backend used when no remote store is
// configured. Each instance owns its own record lists, so tests can
// create independent stores instead of sharing process state. Records
// keep insertion order per collection; Read applies the default sort
// before returning.
type Mock struct {
	mu          sync.RWMutex
	collections map[string][]*Document
}

// NewMock creates an empty mock store.
func NewMock() *Mock {
	return &Mock{
		collections: make(map[string][]*Document),
	}
}

// Create appends a record stamped with a generated id and, unless the
// caller already set one, a creation time.
func (m *Mock) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := &Document{
		ID:     uuid.New().String(),
		Fields: cloneFields(fields),
	}
	if _, ok := doc.Fields["createdAt"]; !ok {
		doc.Fields["createdAt"] = time.Now()
	}

	m.collections[collection] = append(m.collections[collection], doc)
	return doc.ID, nil
}

// Read returns copies of the records matching all filters, in the
// default order: by "order" ascending when both compared records carry
// it, otherwise by "createdAt" descending (newest first). List views
// depend on this exact fallback.
func (m *Mock) Read(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Document
	for _, doc := range m.collections[collection] {
		if matchesAll(doc.Fields, filters) {
			result = append(result, Document{ID: doc.ID, Fields: cloneFields(doc.Fields)})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return defaultLess(result[i].Fields, result[j].Fields)
	})

	return result, nil
}

// Update merges the given fields into the matching record and stamps
// updatedAt. A missing id succeeds as a no-op; only the remote backend
// surfaces not-found on update. Callers must not rely on this quirk.
func (m *Mock) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.collections[collection] {
		if doc.ID != id {
			continue
		}
		for k, v := range fields {
			doc.Fields[k] = v
		}
		doc.Fields["updatedAt"] = time.Now()
		return nil
	}
	return nil
}

// Delete removes the first record with the given id, or reports
// ErrNotFound when none matches.
func (m *Mock) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	for i, doc := range docs {
		if doc.ID == id {
			m.collections[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %s/%s: %w", collection, id, ErrNotFound)
}

// matchesAll reports whether fields satisfy every filter (logical AND).
func matchesAll(fields map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if !f.Matches(fields) {
			return false
		}
	}
	return true
}

// defaultLess implements the default record ordering.
func defaultLess(a, b map[string]any) bool {
	aOrder, aOK := intField(a, "order")
	bOrder, bOK := intField(b, "order")
	if aOK && bOK {
		return aOrder < bOrder
	}
	return timeField(a, "createdAt").After(timeField(b, "createdAt"))
}

func intField(fields map[string]any, key string) (int, bool) {
	switch v := fields[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

func timeField(fields map[string]any, key string) time.Time {
	if t, ok := fields[key].(time.Time); ok {
		return t
	}
	return time.Time{}
}

// cloneFields copies a field map one level deep so callers never alias
// the store's internal state. Array values are copied as slices of
// their (possibly shared) elements, which is enough since the
// repository rebuilds checklist slices on write.
func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if arr, ok := v.([]any); ok {
			v = append([]any(nil), arr...)
		}
		out[k] = v
	}
	return out
}
