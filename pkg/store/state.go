package store

import (
	"slices"

	"github.com/benbjohnson/immutable"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

// State is the reconciled client state. It is an immutable value: Apply
// returns a new State and never modifies the maps of its input. Maps a patch
// does not touch are carried over as the same pointers, which is what the
// selectors key their memoization on.
type State struct {
	Tags  *immutable.Map[string, types.Tag]
	Tasks *immutable.Map[string, types.Task]

	// MissingSubTasks maps a declared subtask id that has not arrived yet to
	// the task that declared it.
	MissingSubTasks *immutable.Map[string, string]
	// OrphanSubTasks holds subtasks that arrived before any task declared them.
	OrphanSubTasks *immutable.Map[string, types.SubTask]

	// DateTaskMap indexes dated tasks (one-time tasks, forks and group tasks)
	// by date key.
	DateTaskMap     *immutable.Map[string, IDSet]
	RepeatedTaskSet IDSet
	GroupTaskMap    *immutable.Map[string, IDSet]
	GroupTaskSet    IDSet

	Groups              *immutable.Map[string, types.Group]
	PendingInvites      *immutable.Map[string, types.PendingGroupInvite]
	Courses             *immutable.Map[string, []types.Course]
	Settings            types.Settings
	BannerMessageStatus *immutable.Map[string, bool]
}

// Initial returns the state before any patch has been applied. It holds the
// built-in NONE tag and the default settings.
func Initial() State {
	return State{
		Tags:                immutable.NewMap[string, types.Tag](nil).Set(types.NoneTagID, types.NoneTag),
		Tasks:               immutable.NewMap[string, types.Task](nil),
		MissingSubTasks:     immutable.NewMap[string, string](nil),
		OrphanSubTasks:      immutable.NewMap[string, types.SubTask](nil),
		DateTaskMap:         immutable.NewMap[string, IDSet](nil),
		GroupTaskMap:        immutable.NewMap[string, IDSet](nil),
		Groups:              immutable.NewMap[string, types.Group](nil),
		PendingInvites:      immutable.NewMap[string, types.PendingGroupInvite](nil),
		Courses:             immutable.NewMap[string, []types.Course](nil),
		Settings:            types.DefaultSettings,
		BannerMessageStatus: immutable.NewMap[string, bool](nil),
	}
}

// DateBucket returns the ids indexed under the date key.
func (s State) DateBucket(key string) IDSet {
	set, _ := s.DateTaskMap.Get(key)
	return set
}

// GroupBucket returns the ids of the tasks shared in the group.
func (s State) GroupBucket(groupID string) IDSet {
	set, _ := s.GroupTaskMap.Get(groupID)
	return set
}

// TaskDoc returns the wire form of the task with the id. Its children are
// every subtask the task declares: the materialized ones in order, then
// those still missing, by id.
func (s State) TaskDoc(id string) (types.TaskDoc, bool) {
	t, ok := s.Tasks.Get(id)
	if !ok {
		return types.TaskDoc{}, false
	}
	doc := t.Doc()
	var missing []string
	itr := s.MissingSubTasks.Iterator()
	for !itr.Done() {
		child, owner, _ := itr.Next()
		if owner == id {
			missing = append(missing, child)
		}
	}
	slices.Sort(missing)
	doc.Children = append(doc.Children, missing...)
	return doc, true
}

// Snapshot is a plain-map copy of a State. Sets are sorted id slices and
// task children are never nil, so two snapshots of equivalent states
// compare equal with reflect.DeepEqual.
type Snapshot struct {
	Tags                map[string]types.Tag                `json:"tags"`
	Tasks               map[string]types.Task               `json:"tasks"`
	MissingSubTasks     map[string]string                   `json:"missingSubTasks"`
	OrphanSubTasks      map[string]types.SubTask            `json:"orphanSubTasks"`
	DateTaskMap         map[string][]string                 `json:"dateTaskMap"`
	RepeatedTaskSet     []string                            `json:"repeatedTaskSet"`
	GroupTaskMap        map[string][]string                 `json:"groupTaskMap"`
	GroupTaskSet        []string                            `json:"groupTaskSet"`
	Groups              map[string]types.Group              `json:"groups"`
	PendingInvites      map[string]types.PendingGroupInvite `json:"pendingInvites"`
	Courses             map[string][]types.Course           `json:"courses"`
	Settings            types.Settings                      `json:"settings"`
	BannerMessageStatus types.BannerMessageStatus           `json:"bannerMessageStatus"`
}

// Export copies s into plain maps.
func (s State) Export() Snapshot {
	tasks := toMap(s.Tasks)
	for id, t := range tasks {
		if t.Children == nil {
			t.Children = []types.SubTask{}
			tasks[id] = t
		}
	}
	return Snapshot{
		Tags:                toMap(s.Tags),
		Tasks:               tasks,
		MissingSubTasks:     toMap(s.MissingSubTasks),
		OrphanSubTasks:      toMap(s.OrphanSubTasks),
		DateTaskMap:         setsToMap(s.DateTaskMap),
		RepeatedTaskSet:     s.RepeatedTaskSet.IDs(),
		GroupTaskMap:        setsToMap(s.GroupTaskMap),
		GroupTaskSet:        s.GroupTaskSet.IDs(),
		Groups:              toMap(s.Groups),
		PendingInvites:      toMap(s.PendingInvites),
		Courses:             toMap(s.Courses),
		Settings:            s.Settings,
		BannerMessageStatus: types.BannerMessageStatus(toMap(s.BannerMessageStatus)),
	}
}

func toMap[V any](m *immutable.Map[string, V]) map[string]V {
	out := make(map[string]V)
	if m == nil {
		return out
	}
	itr := m.Iterator()
	for !itr.Done() {
		k, v, _ := itr.Next()
		out[k] = v
	}
	return out
}

func setsToMap(m *immutable.Map[string, IDSet]) map[string][]string {
	out := make(map[string][]string)
	for k, set := range toMap(m) {
		out[k] = set.IDs()
	}
	return out
}

// Keys returns the keys of m in ascending order.
func Keys[V any](m *immutable.Map[string, V]) []string {
	keys := make([]string, 0, m.Len())
	itr := m.Iterator()
	for !itr.Done() {
		k, _, _ := itr.Next()
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
