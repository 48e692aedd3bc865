package gateway

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update or delete targets a record
// that does not exist. The mock backend only reports it for deletes;
// see the Gateway doc comment.
var ErrNotFound = errors.New("document not found")

// BackendError carries the remote store's native failure info: the
// operation, the document or collection path, the HTTP status (0 for
// transport errors) and the response body or underlying error. The
// gateway performs no retry; recovery is a manual re-invoke by the user.
type BackendError struct {
	Op     string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Op, e.Path, e.Status, e.Body)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
