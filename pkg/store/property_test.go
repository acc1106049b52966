package store

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

// interleavings returns every merge of a and b that keeps the relative
// order of each input.
func interleavings(a, b []types.Patch) [][]types.Patch {
	if len(a) == 0 {
		return [][]types.Patch{slices.Clone(b)}
	}
	if len(b) == 0 {
		return [][]types.Patch{slices.Clone(a)}
	}
	var out [][]types.Patch
	for _, rest := range interleavings(a[1:], b) {
		out = append(out, append([]types.Patch{a[0]}, rest...))
	}
	for _, rest := range interleavings(a, b[1:]) {
		out = append(out, append([]types.Patch{b[0]}, rest...))
	}
	return out
}

func TestOrderIndependence(t *testing.T) {
	taskFirst := mustApply(t, Initial(),
		createTasks(oneTime("T", 0, "s1", "s2")),
		createSubTasks(sub("s2", 2), sub("s1", 1)),
	)
	subTasksFirst := mustApply(t, Initial(),
		createSubTasks(sub("s2", 2), sub("s1", 1)),
		createTasks(oneTime("T", 0, "s1", "s2")),
	)

	assert.Equal(t, taskFirst.Export(), subTasksFirst.Export())
	assert.Equal(t, []string{"s1", "s2"}, childIDs(t, taskFirst, "T"))
}

func TestNoDataLossUnderInterleaving(t *testing.T) {
	t1 := oneTime("T1", 0, "s1", "s2")
	t2 := oneTime("T2", 1, "s3")
	t1Edited := oneTime("T1", 0, "s1", "s2", "s4")
	t1Edited.InFocus = true

	tasksStream := []types.Patch{
		createTasks(t1),
		createTasks(t2),
		editTasks(t1Edited),
	}
	subTasksStream := []types.Patch{
		createSubTasks(sub("s3", 0), sub("s1", 1)),
		createSubTasks(sub("s2", 2), sub("s4", 0)),
		types.SubTasksPatch{Edited: []types.SubTask{{ID: "s1", Order: 5, Name: "edited"}}},
	}

	orders := interleavings(tasksStream, subTasksStream)
	require.Len(t, orders, 20)

	want := mustApply(t, Initial(), orders[0]...).Export()
	for i, order := range orders {
		t.Run(fmt.Sprintf("order %d", i), func(t *testing.T) {
			s := mustApply(t, Initial(), order...)
			assert.Equal(t, 0, s.MissingSubTasks.Len())
			assert.Equal(t, 0, s.OrphanSubTasks.Len())
			assert.Equal(t, []string{"s4", "s2", "s1"}, childIDs(t, s, "T1"))
			assert.Equal(t, []string{"s3"}, childIDs(t, s, "T2"))
			assert.Equal(t, want, s.Export())
		})
	}
}

func TestDeterminism(t *testing.T) {
	patches := []types.Patch{
		createSubTasks(sub("a", 1), sub("b", 0)),
		createTasks(oneTime("x", 0, "a", "c")),
		types.TagsPatch{Created: []types.Tag{{ID: "tag", Name: "Tag"}}},
		createSubTasks(sub("c", 2)),
		deleteTasks("x"),
	}
	first := mustApply(t, Initial(), patches...)
	second := mustApply(t, Initial(), patches...)
	assert.Equal(t, first.Export(), second.Export())
}
