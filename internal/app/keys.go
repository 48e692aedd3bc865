package app

import "github.com/haruapp/haru/internal/keys"

// KeyMap is re-exported from the keys package so callers can reference
// app.KeyMap without importing both packages.
type KeyMap = keys.KeyMap

// DefaultKeyMap delegates to keys.DefaultKeyMap.
func DefaultKeyMap() *KeyMap {
	return keys.DefaultKeyMap()
}
