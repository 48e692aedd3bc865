// Package dateutil converts between the two date-key formats used
// throughout the app: the dash-separated storage format (2006-01-02)
// persisted in the backend, and the dot-separated display format
// (2006.01.02) shown in the UI and used in URLs. Storage keys compare
// correctly as plain strings, which the repository relies on for
// day-granularity ordering.
package dateutil

import (
	"fmt"
	"time"
)

// Date-key layouts. These are the only two formats in use; nothing else
// should ever be persisted or rendered.
const (
	StorageLayout = "2006-01-02"
	DisplayLayout = "2006.01.02"
)

// ParseError reports a malformed date-key. Callers typically fall back
// to today instead of propagating it.
type ParseError struct {
	Input  string
	Layout string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing date %q as %s: %v", e.Input, e.Layout, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseStorage parses a storage date-key into a calendar date.
func ParseStorage(key string) (time.Time, error) {
	t, err := time.Parse(StorageLayout, key)
	if err != nil {
		return time.Time{}, &ParseError{Input: key, Layout: StorageLayout, Err: err}
	}
	return t, nil
}

// ParseDisplay parses a display date-key into a calendar date.
func ParseDisplay(key string) (time.Time, error) {
	t, err := time.Parse(DisplayLayout, key)
	if err != nil {
		return time.Time{}, &ParseError{Input: key, Layout: DisplayLayout, Err: err}
	}
	return t, nil
}

// FormatStorage renders t as a storage date-key.
func FormatStorage(t time.Time) string {
	return t.Format(StorageLayout)
}

// FormatDisplay renders t as a display date-key.
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

// ToStorage converts a display date-key to its storage form.
func ToStorage(display string) (string, error) {
	t, err := ParseDisplay(display)
	if err != nil {
		return "", err
	}
	return FormatStorage(t), nil
}

// ToDisplay converts a storage date-key to its display form.
func ToDisplay(storage string) (string, error) {
	t, err := ParseStorage(storage)
	if err != nil {
		return "", err
	}
	return FormatDisplay(t), nil
}

// AddDays returns the storage date-key n days after key. n may be
// negative.
func AddDays(key string, n int) (string, error) {
	t, err := ParseStorage(key)
	if err != nil {
		return "", err
	}
	return FormatStorage(t.AddDate(0, 0, n)), nil
}

// Before reports whether a falls strictly before b at day granularity.
// Both must be storage date-keys, which sort lexicographically.
func Before(a, b string) bool {
	return a < b
}

// Today returns the current local date as a storage date-key.
func Today() string {
	return FormatStorage(time.Now())
}
