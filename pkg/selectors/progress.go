package selectors

import (
	"github.com/mesh-intelligence/samwise/pkg/types"
)

// Progress counts the in-focus work that is done.
type Progress struct {
	CompletedCount int `json:"completedCount"`
	TotalCount     int `json:"totalCount"`
}

// InFocus reports whether the task or any of its children is in focus.
func InFocus(t types.Task) bool {
	if t.InFocus {
		return true
	}
	for _, c := range t.Children {
		if c.InFocus {
			return true
		}
	}
	return false
}

// ComputeProgress aggregates progress over tasks. An in-focus task counts
// itself and all its children; otherwise only its in-focus children count.
// A complete task counts everything it counts as complete; an incomplete
// task counts only its complete children.
func ComputeProgress(tasks []types.Task) Progress {
	var p Progress
	for _, t := range tasks {
		for _, c := range t.Children {
			if !t.InFocus && !c.InFocus {
				continue
			}
			p.TotalCount++
			if t.Complete || c.Complete {
				p.CompletedCount++
			}
		}
		if t.InFocus {
			p.TotalCount++
			if t.Complete {
				p.CompletedCount++
			}
		}
	}
	return p
}

// FilterIncompleteFocus returns the remnant of t shown in the incomplete
// part of the focus view, and false when there is none.
func FilterIncompleteFocus(t types.Task) (types.Task, bool) {
	if t.Complete {
		return types.Task{}, false
	}
	children := make([]types.SubTask, 0, len(t.Children))
	for _, c := range t.Children {
		if !c.Complete && (t.InFocus || c.InFocus) {
			children = append(children, c)
		}
	}
	if !t.InFocus && len(children) == 0 {
		return types.Task{}, false
	}
	t.Children = children
	return t, true
}

// FilterCompleteFocus returns the remnant of t shown in the complete part
// of the focus view, and false when there is none.
func FilterCompleteFocus(t types.Task) (types.Task, bool) {
	children := make([]types.SubTask, 0, len(t.Children))
	for _, c := range t.Children {
		if (t.InFocus || c.InFocus) && (t.Complete || c.Complete) {
			children = append(children, c)
		}
	}
	if !(t.InFocus && t.Complete) && len(children) == 0 {
		return types.Task{}, false
	}
	t.Children = children
	return t, true
}
