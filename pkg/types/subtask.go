package types

import (
	"cmp"
	"fmt"
	"slices"
)

// SubTask is a child of exactly one task. Its Order is only meaningful
// among the siblings under the same parent.
type SubTask struct {
	ID       string `json:"id"`
	Order    int64  `json:"order"`
	Name     string `json:"name"`
	Complete bool   `json:"complete"`
	InFocus  bool   `json:"inFocus"`
}

// Validate checks the fields the reducer relies on.
func (s SubTask) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("subtask: %w", ErrInvalidID)
	}
	return nil
}

// CompareSubTasks orders subtasks by Order, breaking ties by ID so that
// sorting is deterministic regardless of arrival order.
func CompareSubTasks(a, b SubTask) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortSubTasks sorts children in place using CompareSubTasks.
func SortSubTasks(children []SubTask) {
	slices.SortFunc(children, CompareSubTasks)
}
