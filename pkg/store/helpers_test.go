package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

var testDate = time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)

func oneTime(id string, order int64, children ...string) types.TaskDoc {
	return types.TaskDoc{
		ID:       id,
		Order:    order,
		Owner:    "user",
		Name:     "task " + id,
		Tag:      types.NoneTagID,
		Children: children,
		Metadata: types.OneTime{Date: testDate},
	}
}

func sub(id string, order int64) types.SubTask {
	return types.SubTask{ID: id, Order: order, Name: "sub " + id}
}

func createTasks(docs ...types.TaskDoc) types.TasksPatch {
	return types.TasksPatch{Created: docs}
}

func editTasks(docs ...types.TaskDoc) types.TasksPatch {
	return types.TasksPatch{Edited: docs}
}

func deleteTasks(ids ...string) types.TasksPatch {
	return types.TasksPatch{Deleted: ids}
}

func createSubTasks(subs ...types.SubTask) types.SubTasksPatch {
	return types.SubTasksPatch{Created: subs}
}

func mustApply(t *testing.T, s State, patches ...types.Patch) State {
	t.Helper()
	for _, p := range patches {
		var err error
		s, err = Apply(s, p)
		require.NoError(t, err)
	}
	return s
}

func childIDs(t *testing.T, s State, taskID string) []string {
	t.Helper()
	task, ok := s.Tasks.Get(taskID)
	require.True(t, ok, "task %s not found", taskID)
	ids := make([]string, len(task.Children))
	for i, c := range task.Children {
		ids[i] = c.ID
	}
	return ids
}

// fixture holds task foo with its materialized child foo.
func fixture(t *testing.T) State {
	t.Helper()
	foo := oneTime("foo", 1, "foo")
	foo.Complete = true
	return mustApply(t, Initial(),
		createTasks(foo),
		createSubTasks(types.SubTask{ID: "foo", Order: 1, Name: "Foo", Complete: true}),
	)
}
