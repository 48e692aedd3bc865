package model

import "time"

// Tag is the fixed color label attached to every todo.
type Tag string

// The four tag colors offered by the app. There is no "no tag" state;
// the add form defaults to blue.
const (
	TagBlue   Tag = "blue"
	TagGreen  Tag = "green"
	TagYellow Tag = "yellow"
	TagRed    Tag = "red"
)

// Tags lists all valid tag values in display order.
var Tags = []Tag{TagBlue, TagGreen, TagYellow, TagRed}

// Valid reports whether t is one of the known tag colors.
func (t Tag) Valid() bool {
	switch t {
	case TagBlue, TagGreen, TagYellow, TagRed:
		return true
	}
	return false
}

// MaxTitleLen is the input-side limit on todo titles. It is enforced by
// the form, not by storage.
const MaxTitleLen = 60

// Todo is a single to-do item owned by one user. A nil Date means the
// item sits in the backlog rather than on a calendar day.
type Todo struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Title     string          `json:"title"`
	Date      *string         `json:"date"` // storage date-key (2006-01-02) or nil
	Tag       Tag             `json:"tag"`
	Completed bool            `json:"completed"`
	Checklist []ChecklistItem `json:"checklist,omitempty"`
	Order     *int            `json:"order,omitempty"` // legacy sort key, best effort
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ChecklistItem is a sub-entry within a todo. Its lifecycle is bound to
// the parent; it is never referenced on its own.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}
