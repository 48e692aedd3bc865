package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/haruapp/haru/internal/dateutil"
	"github.com/haruapp/haru/internal/gateway"
	"github.com/haruapp/haru/internal/model"
	"github.com/haruapp/haru/internal/rules"
)

// TodoRepo stores todos under users/{uid}/todos.
type TodoRepo struct {
	gw gateway.Gateway
}

// NewTodoRepo creates a todo repository on top of the given gateway.
func NewTodoRepo(gw gateway.Gateway) *TodoRepo {
	return &TodoRepo{gw: gw}
}

// Add creates a new todo and returns its id. Completed defaults to
// false and both timestamps are stamped to now; input validation (title
// length, tag choice) is the form's job, not the repository's.
func (r *TodoRepo) Add(ctx context.Context, userID string, todo model.Todo) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("adding todo: %w", ErrAuthRequired)
	}

	now := time.Now()
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = now
	}
	todo.UpdatedAt = now
	todo.UserID = userID

	id, err := r.gw.Create(ctx, userCollection(userID, "todos"), todoFields(todo))
	if err != nil {
		return "", fmt.Errorf("adding todo: %w", err)
	}
	return id, nil
}

// Update applies a partial update and stamps updatedAt. When the patch
// rewrites the checklist without explicitly setting the completed flag,
// the flag is recomputed here. This is the single place checklist-driven
// completion happens.
func (r *TodoRepo) Update(ctx context.Context, userID, id string, patch TodoPatch) error {
	if userID == "" {
		return fmt.Errorf("updating todo: %w", ErrAuthRequired)
	}

	updates := patch.fields()

	if patch.Checklist != nil && patch.Completed == nil {
		current, err := r.Get(ctx, userID, id)
		switch {
		case err == nil:
			updates["completed"] = rules.RecomputeCompletion(*patch.Checklist, current.Completed)
		case errors.Is(err, gateway.ErrNotFound):
			// Let the backend decide what an update on a missing id
			// means; the two modes intentionally disagree.
		default:
			return fmt.Errorf("updating todo %s: %w", id, err)
		}
	}

	updates["updatedAt"] = time.Now()

	if err := r.gw.Update(ctx, userCollection(userID, "todos"), id, updates); err != nil {
		return fmt.Errorf("updating todo %s: %w", id, err)
	}
	return nil
}

// Delete removes a todo. Nothing cascades from it.
func (r *TodoRepo) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return fmt.Errorf("deleting todo: %w", ErrAuthRequired)
	}
	if err := r.gw.Delete(ctx, userCollection(userID, "todos"), id); err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	return nil
}

// Get fetches a single todo by listing the user's collection and
// scanning for the id, the same way the edit screen loads its data.
func (r *TodoRepo) Get(ctx context.Context, userID, id string) (*model.Todo, error) {
	if userID == "" {
		return nil, fmt.Errorf("getting todo: %w", ErrAuthRequired)
	}

	docs, err := r.gw.Read(ctx, userCollection(userID, "todos"))
	if err != nil {
		return nil, fmt.Errorf("getting todo %s: %w", id, err)
	}
	for _, doc := range docs {
		if doc.ID == id {
			todo := docToTodo(doc, userID)
			return &todo, nil
		}
	}
	return nil, fmt.Errorf("getting todo %s: %w", id, gateway.ErrNotFound)
}

// ListBacklog returns the user's undated todos. Listings tolerate an
// unauthenticated caller by returning an empty list: the UI polls them
// opportunistically on focus and navigation.
func (r *TodoRepo) ListBacklog(ctx context.Context, userID string) ([]model.Todo, error) {
	if userID == "" {
		return nil, nil
	}

	docs, err := r.gw.Read(ctx, userCollection(userID, "todos"),
		gateway.Equals("date", nil))
	if err != nil {
		return nil, fmt.Errorf("listing backlog: %w", err)
	}

	todos := docsToTodos(docs, userID)
	sortTodos(todos)
	return todos, nil
}

// ListForDate returns the todos scheduled on the given storage date-key.
func (r *TodoRepo) ListForDate(ctx context.Context, userID, dateKey string) ([]model.Todo, error) {
	if userID == "" {
		return nil, nil
	}

	docs, err := r.gw.Read(ctx, userCollection(userID, "todos"),
		gateway.Equals("date", dateKey))
	if err != nil {
		return nil, fmt.Errorf("listing todos for %s: %w", dateKey, err)
	}

	todos := docsToTodos(docs, userID)
	sortTodos(todos)
	return todos, nil
}

// ListOverdue returns incomplete todos dated strictly before today,
// earliest first so the oldest debt surfaces on top. The backend only
// narrows to dated todos; completion and day comparison happen here.
func (r *TodoRepo) ListOverdue(ctx context.Context, userID, today string) ([]model.Todo, error) {
	if userID == "" {
		return nil, nil
	}

	docs, err := r.gw.Read(ctx, userCollection(userID, "todos"),
		gateway.NotEquals("date", nil))
	if err != nil {
		return nil, fmt.Errorf("listing overdue: %w", err)
	}

	var overdue []model.Todo
	for _, todo := range docsToTodos(docs, userID) {
		if todo.Completed || todo.Date == nil {
			continue
		}
		if dateutil.Before(*todo.Date, today) {
			overdue = append(overdue, todo)
		}
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		return *overdue[i].Date < *overdue[j].Date
	})
	return overdue, nil
}

// sortTodos applies the list display order client side, independent of
// any backend index: by order ascending when both items carry one,
// otherwise newest first by createdAt, falling back to updatedAt when
// createdAt is absent.
func sortTodos(todos []model.Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		if a.Order != nil && b.Order != nil {
			return *a.Order < *b.Order
		}
		return effectiveTime(a).After(effectiveTime(b))
	})
}

func effectiveTime(t model.Todo) time.Time {
	if t.CreatedAt.IsZero() {
		return t.UpdatedAt
	}
	return t.CreatedAt
}

// todoFields flattens a todo into gateway fields. The id is never
// stored inside the record; the store assigns it.
func todoFields(todo model.Todo) map[string]any {
	fields := map[string]any{
		"userId":    todo.UserID,
		"title":     todo.Title,
		"tag":       string(todo.Tag),
		"completed": todo.Completed,
		"checklist": encodeChecklist(todo.Checklist),
		"createdAt": todo.CreatedAt,
		"updatedAt": todo.UpdatedAt,
	}
	if todo.Date != nil {
		fields["date"] = *todo.Date
	} else {
		fields["date"] = nil
	}
	if todo.Order != nil {
		fields["order"] = *todo.Order
	}
	return fields
}

// docToTodo rebuilds a todo from gateway fields, tolerating absent or
// oddly typed values rather than failing a whole listing.
func docToTodo(doc gateway.Document, userID string) model.Todo {
	todo := model.Todo{
		ID:     doc.ID,
		UserID: userID,
	}
	if title, ok := doc.Fields["title"].(string); ok {
		todo.Title = title
	}
	if date, ok := doc.Fields["date"].(string); ok {
		todo.Date = &date
	}
	if tag, ok := doc.Fields["tag"].(string); ok {
		todo.Tag = model.Tag(tag)
	}
	if completed, ok := doc.Fields["completed"].(bool); ok {
		todo.Completed = completed
	}
	todo.Checklist = decodeChecklist(doc.Fields["checklist"])
	if order, ok := intValue(doc.Fields["order"]); ok {
		todo.Order = &order
	}
	if createdAt, ok := doc.Fields["createdAt"].(time.Time); ok {
		todo.CreatedAt = createdAt
	}
	if updatedAt, ok := doc.Fields["updatedAt"].(time.Time); ok {
		todo.UpdatedAt = updatedAt
	}
	return todo
}

func docsToTodos(docs []gateway.Document, userID string) []model.Todo {
	todos := make([]model.Todo, len(docs))
	for i, doc := range docs {
		todos[i] = docToTodo(doc, userID)
	}
	return todos
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
