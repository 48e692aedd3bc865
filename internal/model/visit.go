package model

import "time"

// Visit marks that a user opened the app on a given calendar day. At
// most one record exists per user per date; visits are never mutated or
// deleted, only counted for the streak banner.
type Visit struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // storage date-key (2006-01-02)
	CreatedAt time.Time `json:"createdAt"`
}
