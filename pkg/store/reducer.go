package store

import (
	"fmt"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

// Report summarizes what one Apply did. Counts are per entity.
type Report struct {
	Kind     types.PatchKind `json:"kind"`
	Created  int             `json:"created"`
	Edited   int             `json:"edited"`
	Deleted  int             `json:"deleted"`
	Resolved int             `json:"resolved"` // subtasks materialized from the missing or orphan maps
	Awaiting int             `json:"awaiting"` // declared children recorded as missing
	Parked   int             `json:"parked"`   // subtasks stored as orphans
	Dropped  []string        `json:"dropped,omitempty"`
}

// Apply folds p into s and returns the new state. It returns an error only
// when p fails validation, in which case s is returned unchanged. Edits and
// deletes of entities that are not known are benign races and are absorbed.
func Apply(s State, p types.Patch) (State, error) {
	next, _, err := ApplyWithReport(s, p)
	return next, err
}

// ApplyWithReport is Apply that also reports what the patch did.
func ApplyWithReport(s State, p types.Patch) (State, Report, error) {
	if p == nil {
		return s, Report{}, types.ErrUnknownPatch
	}
	if err := p.Validate(); err != nil {
		return s, Report{Kind: p.Kind()}, fmt.Errorf("%s patch: %w", p.Kind(), err)
	}

	tx := &txn{s: s, report: Report{Kind: p.Kind()}}
	switch v := p.(type) {
	case types.TasksPatch:
		tx.applyTasks(v)
	case types.SubTasksPatch:
		tx.applySubTasks(v)
	case types.TagsPatch:
		tx.applyTags(v)
	case types.GroupsPatch:
		tx.applyGroups(v)
	case types.GroupInvitesPatch:
		tx.applyGroupInvites(v)
	case types.SettingsPatch:
		tx.s.Settings = v.Settings
		tx.report.Edited = 1
	case types.BannerPatch:
		tx.applyBanner(v)
	case types.CoursesPatch:
		tx.applyCourses(v)
	default:
		return s, Report{}, fmt.Errorf("%T: %w", p, types.ErrUnknownPatch)
	}
	return tx.s, tx.report, nil
}

// txn accumulates the updates of one patch. Every write replaces a map
// pointer in the private copy of the state; the caller's State is never
// touched.
type txn struct {
	s      State
	report Report
}
