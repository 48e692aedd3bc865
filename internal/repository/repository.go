// Package repository provides the typed, per-user data access the UI
// works with: todo CRUD with the backlog/dated/overdue queries, and the
// visit log behind the streak banner. It is the only consumer of the
// gateway contract.
package repository

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when an operation that needs a signed-in
// user is called without one. The UI surfaces it as "login required"
// and never retries.
var ErrAuthRequired = errors.New("login required")

// userCollection builds the per-user collection path.
func userCollection(userID, name string) string {
	return fmt.Sprintf("users/%s/%s", userID, name)
}
