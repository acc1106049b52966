package patchlog

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

// Strategy selects how replay orders the streams of a log relative to each
// other. Every strategy keeps the order of entries within a stream.
type Strategy string

// Replay strategies.
const (
	Logged        Strategy = "logged"
	TasksFirst    Strategy = "tasks-first"
	SubTasksFirst Strategy = "subtasks-first"
)

// Strategies lists the accepted strategies.
var Strategies = []Strategy{Logged, TasksFirst, SubTasksFirst}

// ErrUnknownStrategy reports a strategy name not in Strategies.
var ErrUnknownStrategy = errors.New("unknown replay strategy")

// ParseStrategy returns the strategy named s.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownStrategy)
}

// Interleave returns the entries reordered by the strategy. Entries are not
// copied; the input slice is left as it was.
func Interleave(entries []Entry, s Strategy) ([]Entry, error) {
	switch s {
	case Logged:
		return append([]Entry(nil), entries...), nil
	case TasksFirst:
		return kindFirst(entries, types.PatchTasks), nil
	case SubTasksFirst:
		return kindFirst(entries, types.PatchSubTasks), nil
	}
	return nil, fmt.Errorf("%q: %w", s, ErrUnknownStrategy)
}

// kindFirst moves the entries of kind to the front, keeping the relative
// order of both partitions.
func kindFirst(entries []Entry, kind types.PatchKind) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Patch.Kind() == kind {
			out = append(out, e)
		}
	}
	for _, e := range entries {
		if e.Patch.Kind() != kind {
			out = append(out, e)
		}
	}
	return out
}
