package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/haruapp/haru/internal/gateway"
	"github.com/haruapp/haru/internal/model"
	"github.com/haruapp/haru/internal/rules"
)

// VisitRepo stores one record per visited day under users/{uid}/visits.
// Records are append-only; they exist solely to feed the streak banner.
type VisitRepo struct {
	gw gateway.Gateway
}

// NewVisitRepo creates a visit repository on top of the given gateway.
func NewVisitRepo(gw gateway.Gateway) *VisitRepo {
	return &VisitRepo{gw: gw}
}

// List returns the user's visit records. An unauthenticated caller gets
// an empty list, like the todo listings.
func (r *VisitRepo) List(ctx context.Context, userID string) ([]model.Visit, error) {
	if userID == "" {
		return nil, nil
	}

	docs, err := r.gw.Read(ctx, userCollection(userID, "visits"))
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}

	visits := make([]model.Visit, 0, len(docs))
	for _, doc := range docs {
		visit := model.Visit{ID: doc.ID}
		if date, ok := doc.Fields["date"].(string); ok {
			visit.Date = date
		}
		if createdAt, ok := doc.Fields["createdAt"].(time.Time); ok {
			visit.CreatedAt = createdAt
		}
		visits = append(visits, visit)
	}
	return visits, nil
}

// ListDates returns the distinct storage date-keys the user visited on.
func (r *VisitRepo) ListDates(ctx context.Context, userID string) ([]string, error) {
	visits, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	var dates []string
	for _, visit := range visits {
		if visit.Date != "" {
			dates = append(dates, visit.Date)
		}
	}
	return dates, nil
}

// RecordOnce writes today's visit record unless one already exists,
// and reports whether a write happened. The existence check runs client
// side, so calling this several times per session stays idempotent by
// date-key.
func (r *VisitRepo) RecordOnce(ctx context.Context, userID, today string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("recording visit: %w", ErrAuthRequired)
	}

	dates, err := r.ListDates(ctx, userID)
	if err != nil {
		return false, err
	}
	if !rules.NeedsVisit(dates, today) {
		return false, nil
	}

	_, err = r.gw.Create(ctx, userCollection(userID, "visits"), map[string]any{
		"date":      today,
		"createdAt": time.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("recording visit: %w", err)
	}
	return true, nil
}

// Streak returns the user's current consecutive-day visit count.
func (r *VisitRepo) Streak(ctx context.Context, userID, today string) (int, error) {
	dates, err := r.ListDates(ctx, userID)
	if err != nil {
		return 0, err
	}
	return rules.ComputeStreak(dates, today), nil
}
