package patchlog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/samwise/pkg/store"
	"github.com/mesh-intelligence/samwise/pkg/types"
)

// messyState applies patches that leave a missing child, an orphan, a
// deleted NONE tag and non-default settings behind.
func messyState(t *testing.T) store.State {
	t.Helper()
	fork := "f"
	s := store.New()
	for _, p := range []types.Patch{
		types.TagsPatch{Created: []types.Tag{{ID: "cs", Order: 1, Name: "CS"}}, Deleted: []string{types.NoneTagID}},
		types.SettingsPatch{Settings: types.Settings{Theme: types.ThemeDark}},
		types.BannerPatch{Change: types.BannerMessageStatus{"quota": true}},
		types.CoursesPatch{Courses: map[string][]types.Course{"CS 2112": {{CourseID: 1, Subject: "CS"}}}},
		types.GroupsPatch{Created: []types.Group{{ID: "g", Name: "Team", Members: []string{"a"}}}},
		types.GroupInvitesPatch{Created: []types.PendingGroupInvite{{ID: "i", Group: "g2"}}},
		types.SubTasksPatch{Created: []types.SubTask{{ID: "a", Order: 1}, {ID: "orphan"}}},
		types.TasksPatch{Created: []types.TaskDoc{
			{ID: "t", Tag: "cs", Children: []string{"a", "late"}, Metadata: types.OneTime{Date: testDate}},
			{ID: "g1", Metadata: types.GroupTask{Date: testDate, Group: "g"}},
			{ID: "m", Metadata: types.MasterTemplate{
				Date:  types.RepeatingDate{StartDate: testDate, Pattern: types.RepeatingPattern{Type: types.PatternWeekly, BitSet: 2}},
				Forks: []types.Fork{{ForkID: &fork, ReplaceDate: testDate}},
			}},
		}},
	} {
		_, err := s.Dispatch(p)
		require.NoError(t, err)
	}
	st := s.State()
	require.Equal(t, 1, st.MissingSubTasks.Len())
	require.Equal(t, 1, st.OrphanSubTasks.Len())
	return st
}

func TestCompactRebuildsState(t *testing.T) {
	st := messyState(t)
	patches := Compact(st)

	s := store.New()
	for _, p := range patches {
		_, err := s.Dispatch(p)
		require.NoError(t, err, p.Kind())
	}
	assert.Equal(t, st.Export(), s.State().Export())
}

func TestCompactInitialState(t *testing.T) {
	assert.Empty(t, Compact(store.Initial()))
}

func TestRewrite(t *testing.T) {
	st := messyState(t)
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Append(path, types.TagsPatch{Created: []types.Tag{{ID: "stale"}}}))

	require.NoError(t, Rewrite(path, Compact(st)))
	entries, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, entries, len(Compact(st)))

	s := store.New()
	_, err = Replay(s, entries)
	require.NoError(t, err)
	assert.Equal(t, st.Export(), s.State().Export())

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".patches-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp file is renamed away")
}
