package store

import (
	"slices"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

// subTaskBatch collects the owner tasks a subtasks patch touches so each is
// copied, re-sorted and written back once.
type subTaskBatch struct {
	tx     *txn
	owners map[string]string // subtask id -> owning task id
	dirty  map[string]types.Task
	order  []string
}

func (tx *txn) applySubTasks(p types.SubTasksPatch) {
	b := &subTaskBatch{
		tx:     tx,
		owners: tx.reverseIndex(),
		dirty:  make(map[string]types.Task),
	}
	for _, s := range p.Created {
		b.create(s)
		tx.report.Created++
	}
	for _, s := range p.Edited {
		if b.edit(s) {
			tx.report.Edited++
		} else {
			tx.report.Dropped = append(tx.report.Dropped, s.ID)
		}
	}
	for _, id := range p.Deleted {
		if b.remove(id) {
			tx.report.Deleted++
		}
	}
	b.commit()
}

// reverseIndex maps every materialized subtask to its owner. It is built
// once per subtasks patch.
func (tx *txn) reverseIndex() map[string]string {
	owners := make(map[string]string)
	itr := tx.s.Tasks.Iterator()
	for !itr.Done() {
		id, t, _ := itr.Next()
		for _, c := range t.Children {
			owners[c.ID] = id
		}
	}
	return owners
}

// task returns the working copy of the owner. The children slice of the
// copy is private to the batch.
func (b *subTaskBatch) task(id string) (types.Task, bool) {
	if t, ok := b.dirty[id]; ok {
		return t, true
	}
	t, ok := b.tx.s.Tasks.Get(id)
	if !ok {
		return types.Task{}, false
	}
	t.Children = slices.Clone(t.Children)
	b.dirty[id] = t
	b.order = append(b.order, id)
	return t, true
}

func (b *subTaskBatch) create(s types.SubTask) {
	tx := b.tx
	if owner, ok := b.owners[s.ID]; ok {
		b.replace(owner, s)
		return
	}
	if owner, ok := tx.s.MissingSubTasks.Get(s.ID); ok {
		tx.s.MissingSubTasks = tx.s.MissingSubTasks.Delete(s.ID)
		if t, ok := b.task(owner); ok {
			t.Children = append(t.Children, s)
			b.dirty[owner] = t
			b.owners[s.ID] = owner
			tx.report.Resolved++
			return
		}
	}
	tx.s.OrphanSubTasks = tx.s.OrphanSubTasks.Set(s.ID, s)
	tx.report.Parked++
}

// edit replaces a known subtask. A subtask with neither an owner nor an
// orphan entry cannot be placed and is dropped.
func (b *subTaskBatch) edit(s types.SubTask) bool {
	tx := b.tx
	if owner, ok := b.owners[s.ID]; ok {
		b.replace(owner, s)
		return true
	}
	if _, ok := tx.s.OrphanSubTasks.Get(s.ID); ok {
		tx.s.OrphanSubTasks = tx.s.OrphanSubTasks.Set(s.ID, s)
		return true
	}
	return false
}

func (b *subTaskBatch) remove(id string) bool {
	tx := b.tx
	if owner, ok := b.owners[id]; ok {
		t, _ := b.task(owner)
		t.Children = slices.DeleteFunc(t.Children, func(c types.SubTask) bool { return c.ID == id })
		b.dirty[owner] = t
		delete(b.owners, id)
		return true
	}
	if _, ok := tx.s.OrphanSubTasks.Get(id); ok {
		tx.s.OrphanSubTasks = tx.s.OrphanSubTasks.Delete(id)
		return true
	}
	return false
}

func (b *subTaskBatch) replace(owner string, s types.SubTask) {
	t, _ := b.task(owner)
	for i, c := range t.Children {
		if c.ID == s.ID {
			t.Children[i] = s
			break
		}
	}
	b.dirty[owner] = t
}

// commit re-sorts every touched task and writes it back.
func (b *subTaskBatch) commit() {
	for _, id := range b.order {
		t := b.dirty[id]
		types.SortSubTasks(t.Children)
		b.tx.s.Tasks = b.tx.s.Tasks.Set(id, t)
	}
}
