// Package rules holds the pure derived-state logic of the app: checklist
// completion propagation and visit-streak computation. Nothing in this
// package performs I/O; the repository and UI call into it.
package rules

import "github.com/haruapp/haru/internal/model"

// RecomputeCompletion returns the completed flag a todo should carry
// after a checklist mutation. With a non-empty checklist the flag is
// derived: all items done flips it on, any undone item flips it off.
// An empty checklist leaves completion under manual control, so the
// previous value is returned unchanged.
func RecomputeCompletion(checklist []model.ChecklistItem, completed bool) bool {
	if len(checklist) == 0 {
		return completed
	}

	allDone := true
	for _, item := range checklist {
		if !item.Completed {
			allDone = false
			break
		}
	}

	if allDone && !completed {
		return true
	}
	if !allDone && completed {
		return false
	}
	return completed
}
