package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruapp/haru/internal/gateway"
	"github.com/haruapp/haru/internal/model"
)

func newTestTodoRepo(t *testing.T) *TodoRepo {
	t.Helper()
	return NewTodoRepo(gateway.NewMock())
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }

func TestTodoRepoAddAndGet(t *testing.T) {
	repo := newTestTodoRepo(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, "u1", model.Todo{
		Title: "write report",
		Date:  strPtr("2024-01-05"),
		Tag:   model.TagGreen,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	todo, err := repo.Get(ctx, "u1", id)
	require.NoError(t, err)
	assert.Equal(t, "write report", todo.Title)
	assert.Equal(t, model.TagGreen, todo.Tag)
	require.NotNil(t, todo.Date)
	assert.Equal(t, "2024-01-05", *todo.Date)
	assert.False(t, todo.Completed)
	assert.False(t, todo.CreatedAt.IsZero())
}

func TestTodoRepoAddRequiresUser(t *testing.T) {
	repo := newTestTodoRepo(t)

	_, err := repo.Add(context.Background(), "", model.Todo{Title: "x"})
	assert.True(t, errors.Is(err, ErrAuthRequired))

	err = repo.Update(context.Background(), "", "id", TodoPatch{})
	assert.True(t, errors.Is(err, ErrAuthRequired))

	err = repo.Delete(context.Background(), "", "id")
	assert.True(t, errors.Is(err, ErrAuthRequired))
}

func TestTodoRepoGetMissing(t *testing.T) {
	repo := newTestTodoRepo(t)

	_, err := repo.Get(context.Background(), "u1", "no-such-id")
	assert.True(t, errors.Is(err, gateway.ErrNotFound))
}

func TestTodoRepoListsArePerUser(t *testing.T) {
	repo := newTestTodoRepo(t)
	ctx := context.Background()

	_, err := repo.Add(ctx, "u1", model.Todo{Title: "mine"})
	require.NoError(t, err)

	todos, err := repo.ListBacklog(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestTodoRepoListingsTolerateMissingUser(t *testing.T) {
	repo := newTestTodoRepo(t)
	ctx := context.Background()

	backlog, err := repo.ListBacklog(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, backlog)

	dated, err := repo.ListForDate(ctx, "", "2024-01-05")
	require.NoError(t, err)
	assert.Empty(t, dated)

	overdue, err := repo.ListOverdue(ctx, "", "2024-01-05")
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestTodoRepoBacklogAndDateAreDisjoint(t *testing.T) {
	repo := newTestTodoRepo(t)
	ctx := context.Background()

	_, err := repo.Add(ctx, "u1", model.Todo{Title: "backlog item"})
	require.NoError(t, err)
	_, err = repo.Add(ctx, "u1", model.Todo{Title: "dated item", Date: strPtr("2024-01-05")})
	require.NoError(t, err)

	backlog, err := repo.ListBacklog(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, backlog, 1)
	assert.Equal(t, "backlog item", backlog[0].Title)

	dated, err := repo.ListForDate(ctx, "u1", "2024-01-05")
	require.NoError(t, err)
	require.Len(t, dated, 1)
	assert.Equal(t, "dated item", dated[0].Title)

	otherDay, err := repo.ListForDate(ctx, "u1", "2024-01-06")
	require.NoError(t, err)
	assert.Empty(t, otherDay)
}

func TestTodoRepoListSortOrder(t *testing.T) {
	repo := newTestTodoRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.Add(ctx, "u1", model.Todo{Title: "order 2", Order: intPtr(2), CreatedAt: base})
	require.NoError(t, err)
	_, err = repo.Add(ctx, "u1", model.Todo{Title: "no order", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	_, err = repo.Add(ctx, "u1", model.Todo{Title: "order 1", Order: intPtr(1), CreatedAt: base.Add(2 * time.Hour)})
	require.NoError(t, err)

	todos, err := repo.ListBacklog(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, todos, 3)

	// order wins only between two ordered items; against an unordered
	// item the newest createdAt goes first.
	assert.Equal(t, "order 1", todos[0].Title)
	assert.Equal(t, "no order", todos[1].Title)
	assert.Equal(t, "order 2", todos[2].Title)
}

func TestTodoRepoUpdateFields(t *testing.T) {
	repo := newTestTodoRepo(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, "u1", model.Todo{Title: "before", Date: strPtr("2024-01-05")})
	require.NoError(t, err)

	err = repo.Update(ctx, "u1", id, TodoPatch{
		Title:     strPtr("after"),
		Completed: boolPtr(true),
		Tag:       tagPtr(model.TagRed),
	})
	require.NoError(t, err)

	todo, err := repo.Get(ctx, "u1", id)
	require.NoError(t, err)
	assert.Equal(t, "after", todo.Title)
	assert.True(t, todo.Completed)
	assert.Equal(t, model.TagRed, todo.Tag)
	require.NotNil(t, todo.Date)
	assert.Equal(t, "2024-01-05", *todo.Date)
}

func tagPtr(tag model.Tag) *model.Tag { return &tag }

func TestTodoRepoClearDateMovesToBacklog(t *testing.T) {
	repo := newTestTodoRepo(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, "u1", model.Todo{Title: "scheduled", Date: strPtr("2024-01-05")})
	require.NoError(t, err)

	err = repo.Update(ctx, "u1", id, TodoPatch{ClearDate: true})
	require.NoError(t, err)

	backlog, err := repo.ListBacklog(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, backlog, 1)
	assert.Equal(t, id, backlog[0].ID)

	dated, err := repo.ListForDate(ctx, "u1", "2024-01-05")
	require.NoError(t, err)
	assert.Empty(t, dated)
}

func TestTodoRepoChecklistDrivesCompletion(t *testing.T) {
	repo := newTestTodoRepo(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, "u1", model.Todo{
		Title: "with checklist",
		Checklist: []model.ChecklistItem{
			{ID: "1", Text: "step one"},
			{ID: "2", Text: "step two"},
		},
	})
	require.NoError(t, err)

	// Completing every item flips the todo to done.
	allDone := []model.ChecklistItem{
		{ID: "1", Text: "step one", Completed: true},
		{ID: "2", Text: "step two", Completed: true},
	}
	require.NoError(t, repo.Update(ctx, "u1", id, TodoPatch{Checklist: &allDone}))

	todo, err := repo.Get(ctx, "u1", id)
	require.NoError(t, err)
	assert.True(t, todo.Completed)
	require.Len(t, todo.Checklist, 2)

	// Reopening an item flips it back.
	oneOpen := []model.ChecklistItem{
		{ID: "1", Text: "step one", Completed: true},
		{ID: "2", Text: "step two", Completed: false},
	}
	require.NoError(t, repo.Update(ctx, "u1", id, TodoPatch{Checklist: &oneOpen}))

	todo, err = repo.Get(ctx, "u1", id)
	require.NoError(t, err)
	assert.False(t, todo.Completed)
}

func TestTodoRepoExplicitCompletedWinsOverChecklist(t *testing.T) {
	repo := newTestTodoRepo(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, "u1", model.Todo{Title: "x"})
	require.NoError(t, err)

	// When the patch sets both, the explicit flag is not recomputed.
	openItems := []model.ChecklistItem{{ID: "1", Text: "open item"}}
	err = repo.Update(ctx, "u1", id, TodoPatch{
		Checklist: &openItems,
		Completed: boolPtr(true),
	})
	require.NoError(t, err)

	todo, err := repo.Get(ctx, "u1", id)
	require.NoError(t, err)
	assert.True(t, todo.Completed)
}

func TestTodoRepoDelete(t *testing.T) {
	repo := newTestTodoRepo(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, "u1", model.Todo{Title: "doomed"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "u1", id))

	_, err = repo.Get(ctx, "u1", id)
	assert.True(t, errors.Is(err, gateway.ErrNotFound))

	err = repo.Delete(ctx, "u1", id)
	assert.True(t, errors.Is(err, gateway.ErrNotFound))
}

func TestTodoRepoListOverdue(t *testing.T) {
	repo := newTestTodoRepo(t)
	ctx := context.Background()

	_, err := repo.Add(ctx, "u1", model.Todo{Title: "old open", Date: strPtr("2024-01-02")})
	require.NoError(t, err)
	_, err = repo.Add(ctx, "u1", model.Todo{Title: "older open", Date: strPtr("2024-01-01")})
	require.NoError(t, err)
	_, err = repo.Add(ctx, "u1", model.Todo{Title: "old done", Date: strPtr("2024-01-01"), Completed: true})
	require.NoError(t, err)
	_, err = repo.Add(ctx, "u1", model.Todo{Title: "today", Date: strPtr("2024-01-05")})
	require.NoError(t, err)
	_, err = repo.Add(ctx, "u1", model.Todo{Title: "backlog"})
	require.NoError(t, err)

	overdue, err := repo.ListOverdue(ctx, "u1", "2024-01-05")
	require.NoError(t, err)
	require.Len(t, overdue, 2)

	// Earliest date first.
	assert.Equal(t, "older open", overdue[0].Title)
	assert.Equal(t, "old open", overdue[1].Title)
}
