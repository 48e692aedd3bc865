// Package gateway abstracts the document backend behind a single CRUD
// interface. Exactly one implementation is selected at startup: Remote
// speaks the Firestore REST API when connection parameters are
// configured, and Mock keeps records in process memory when they are
// not. Callers depend only on the Gateway contract and never learn
// which backend is active.
package gateway

import (
	"context"

	"go.uber.org/zap"

	"github.com/haruapp/haru/internal/config"
)

// Document is one record in a collection. Fields holds plain Go values:
// string, bool, int, time.Time, nil, []any and map[string]any.
type Document struct {
	ID     string
	Fields map[string]any
}

// Gateway is the stable persistence contract. Collection paths follow
// the per-user namespace convention, e.g. "users/{uid}/todos".
//
// Update on a missing id is backend-dependent: Remote fails with
// ErrNotFound while Mock silently succeeds. That asymmetry is inherited
// behavior callers must not rely on; see the package tests.
type Gateway interface {
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Read(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}

// New selects the backend once based on the presence of real connection
// parameters. The choice is fixed for the process lifetime.
func New(fb config.FirebaseConfig, log *zap.Logger) Gateway {
	if fb.Configured() {
		log.Info("using remote document store", zap.String("project_id", fb.ProjectID))
		return NewRemote(DefaultBaseURL(fb.ProjectID), fb.APIKey, log)
	}
	log.Info("no backend configured, using in-memory mock store")
	return NewMock()
}
