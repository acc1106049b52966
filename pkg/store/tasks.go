package store

import (
	"github.com/benbjohnson/immutable"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

func (tx *txn) applyTasks(p types.TasksPatch) {
	for _, d := range p.Created {
		tx.upsertTask(d)
		tx.report.Created++
	}
	for _, d := range p.Edited {
		tx.upsertTask(d)
		tx.report.Edited++
	}
	for _, id := range p.Deleted {
		if tx.deleteTask(id) {
			tx.report.Deleted++
		}
	}
}

// upsertTask stores d, resolving each declared child against the task's
// current children, then the orphans, and recording it as missing otherwise.
// A create of a known id and an edit of an unknown id are both handled here,
// so the two cases cannot diverge.
func (tx *txn) upsertTask(d types.TaskDoc) {
	prev, existed := tx.s.Tasks.Get(d.ID)

	base := make(map[string]types.SubTask, len(prev.Children))
	for _, c := range prev.Children {
		base[c.ID] = c
	}

	declared := make(map[string]bool, len(d.Children))
	children := make([]types.SubTask, 0, len(d.Children))
	for _, cid := range d.Children {
		if declared[cid] {
			continue
		}
		declared[cid] = true
		if c, ok := base[cid]; ok {
			children = append(children, c)
			continue
		}
		if c, ok := tx.s.OrphanSubTasks.Get(cid); ok {
			children = append(children, c)
			tx.s.OrphanSubTasks = tx.s.OrphanSubTasks.Delete(cid)
			tx.report.Resolved++
			continue
		}
		if owner, ok := tx.s.MissingSubTasks.Get(cid); !ok || owner != d.ID {
			tx.s.MissingSubTasks = tx.s.MissingSubTasks.Set(cid, d.ID)
			tx.report.Awaiting++
		}
	}
	types.SortSubTasks(children)

	if existed {
		tx.dropStaleMissing(d.ID, declared)
	}
	tx.s.Tasks = tx.s.Tasks.Set(d.ID, d.Materialize(children))

	if existed {
		for _, c := range prev.Children {
			if !declared[c.ID] {
				tx.releaseSubTask(c)
			}
		}
		tx.reindex(d.ID, indexKeysOf(prev.Metadata), indexKeysOf(d.Metadata))
	} else {
		tx.reindex(d.ID, indexKeys{}, indexKeysOf(d.Metadata))
	}
}

// deleteTask removes the task and its index entries. It reports whether the
// task was known.
func (tx *txn) deleteTask(id string) bool {
	prev, ok := tx.s.Tasks.Get(id)
	if !ok {
		tx.s.RepeatedTaskSet = tx.s.RepeatedTaskSet.Remove(id)
		return false
	}
	tx.s.Tasks = tx.s.Tasks.Delete(id)
	tx.dropStaleMissing(id, nil)
	tx.reindex(id, indexKeysOf(prev.Metadata), indexKeys{})
	return true
}

// dropStaleMissing removes the missing entries owned by taskID that are not
// in keep.
func (tx *txn) dropStaleMissing(taskID string, keep map[string]bool) {
	var stale []string
	itr := tx.s.MissingSubTasks.Iterator()
	for !itr.Done() {
		sid, owner, _ := itr.Next()
		if owner == taskID && !keep[sid] {
			stale = append(stale, sid)
		}
	}
	for _, sid := range stale {
		tx.s.MissingSubTasks = tx.s.MissingSubTasks.Delete(sid)
	}
}

// releaseSubTask handles a child that its task no longer declares. If
// another known task is waiting for it, it moves there; otherwise it is
// parked as an orphan until some task declares it.
func (tx *txn) releaseSubTask(c types.SubTask) {
	if owner, ok := tx.s.MissingSubTasks.Get(c.ID); ok {
		if t, ok := tx.s.Tasks.Get(owner); ok {
			t.Children = insertSorted(t.Children, c)
			tx.s.Tasks = tx.s.Tasks.Set(owner, t)
			tx.s.MissingSubTasks = tx.s.MissingSubTasks.Delete(c.ID)
			tx.report.Resolved++
			return
		}
	}
	tx.s.OrphanSubTasks = tx.s.OrphanSubTasks.Set(c.ID, c)
	tx.report.Parked++
}

// insertSorted returns a new slice holding children and c, sorted.
func insertSorted(children []types.SubTask, c types.SubTask) []types.SubTask {
	out := make([]types.SubTask, 0, len(children)+1)
	out = append(out, children...)
	out = append(out, c)
	types.SortSubTasks(out)
	return out
}

// indexKeys are the index entries a task occupies.
type indexKeys struct {
	date      string
	group     string
	repeating bool
}

func indexKeysOf(m types.Metadata) indexKeys {
	var k indexKeys
	if m == nil {
		return k
	}
	k.date, _ = types.DatedKey(m)
	k.group, _ = types.GroupOf(m)
	k.repeating = types.IsMasterTemplate(m)
	return k
}

// reindex moves id from the entries of old to those of cur. Unchanged
// entries are left alone.
func (tx *txn) reindex(id string, old, cur indexKeys) {
	if old.date != cur.date {
		if old.date != "" {
			tx.s.DateTaskMap = removeFromBucket(tx.s.DateTaskMap, old.date, id)
		}
		if cur.date != "" {
			tx.s.DateTaskMap = addToBucket(tx.s.DateTaskMap, cur.date, id)
		}
	}
	if old.group != cur.group {
		if old.group != "" {
			tx.s.GroupTaskMap = removeFromBucket(tx.s.GroupTaskMap, old.group, id)
		}
		if cur.group != "" {
			tx.s.GroupTaskMap = addToBucket(tx.s.GroupTaskMap, cur.group, id)
		}
	}
	if cur.repeating {
		tx.s.RepeatedTaskSet = tx.s.RepeatedTaskSet.Add(id)
	} else {
		tx.s.RepeatedTaskSet = tx.s.RepeatedTaskSet.Remove(id)
	}
	if cur.group != "" {
		tx.s.GroupTaskSet = tx.s.GroupTaskSet.Add(id)
	} else {
		tx.s.GroupTaskSet = tx.s.GroupTaskSet.Remove(id)
	}
}

func addToBucket(m *immutable.Map[string, IDSet], key, id string) *immutable.Map[string, IDSet] {
	set, _ := m.Get(key)
	if set.Has(id) {
		return m
	}
	return m.Set(key, set.Add(id))
}

// removeFromBucket removes id from the bucket, deleting the bucket when it
// becomes empty.
func removeFromBucket(m *immutable.Map[string, IDSet], key, id string) *immutable.Map[string, IDSet] {
	set, ok := m.Get(key)
	if !ok || !set.Has(id) {
		return m
	}
	set = set.Remove(id)
	if set.Len() == 0 {
		return m.Delete(key)
	}
	return m.Set(key, set)
}
