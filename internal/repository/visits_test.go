package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruapp/haru/internal/gateway"
)

func TestVisitRepoRecordOnce(t *testing.T) {
	repo := NewVisitRepo(gateway.NewMock())
	ctx := context.Background()

	wrote, err := repo.RecordOnce(ctx, "u1", "2024-01-05")
	require.NoError(t, err)
	assert.True(t, wrote)

	// The same day records nothing further, no matter how often the
	// session asks.
	for i := 0; i < 3; i++ {
		wrote, err = repo.RecordOnce(ctx, "u1", "2024-01-05")
		require.NoError(t, err)
		assert.False(t, wrote)
	}

	dates, err := repo.ListDates(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-05"}, dates)

	visits, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.NotEmpty(t, visits[0].ID)
	assert.Equal(t, "2024-01-05", visits[0].Date)
	assert.False(t, visits[0].CreatedAt.IsZero())

	// The next day writes again.
	wrote, err = repo.RecordOnce(ctx, "u1", "2024-01-06")
	require.NoError(t, err)
	assert.True(t, wrote)
}

func TestVisitRepoRecordOnceRequiresUser(t *testing.T) {
	repo := NewVisitRepo(gateway.NewMock())

	_, err := repo.RecordOnce(context.Background(), "", "2024-01-05")
	assert.True(t, errors.Is(err, ErrAuthRequired))
}

func TestVisitRepoListDatesTolerateMissingUser(t *testing.T) {
	repo := NewVisitRepo(gateway.NewMock())

	dates, err := repo.ListDates(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestVisitRepoStreak(t *testing.T) {
	repo := NewVisitRepo(gateway.NewMock())
	ctx := context.Background()

	for _, day := range []string{"2024-01-03", "2024-01-04", "2024-01-05"} {
		_, err := repo.RecordOnce(ctx, "u1", day)
		require.NoError(t, err)
	}

	streak, err := repo.Streak(ctx, "u1", "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, 3, streak)

	// A day without a visit breaks the streak.
	streak, err = repo.Streak(ctx, "u1", "2024-01-06")
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestVisitRepoVisitsArePerUser(t *testing.T) {
	repo := NewVisitRepo(gateway.NewMock())
	ctx := context.Background()

	_, err := repo.RecordOnce(ctx, "u1", "2024-01-05")
	require.NoError(t, err)

	dates, err := repo.ListDates(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, dates)
}
