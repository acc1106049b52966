package store

import (
	"github.com/benbjohnson/immutable"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

// upsertAll and deleteAll cover the streams that need no cross-entity
// resolution.
func upsertAll[V any](m *immutable.Map[string, V], values []V, id func(V) string) *immutable.Map[string, V] {
	for _, v := range values {
		m = m.Set(id(v), v)
	}
	return m
}

func deleteAll[V any](m *immutable.Map[string, V], ids []string) (*immutable.Map[string, V], int) {
	n := 0
	for _, id := range ids {
		if _, ok := m.Get(id); ok {
			m = m.Delete(id)
			n++
		}
	}
	return m, n
}

func (tx *txn) applyTags(p types.TagsPatch) {
	tagID := func(t types.Tag) string { return t.ID }
	tx.s.Tags = upsertAll(tx.s.Tags, p.Created, tagID)
	tx.s.Tags = upsertAll(tx.s.Tags, p.Edited, tagID)
	tx.s.Tags, tx.report.Deleted = deleteAll(tx.s.Tags, p.Deleted)
	tx.report.Created = len(p.Created)
	tx.report.Edited = len(p.Edited)
}

func (tx *txn) applyGroups(p types.GroupsPatch) {
	groupID := func(g types.Group) string { return g.ID }
	tx.s.Groups = upsertAll(tx.s.Groups, p.Created, groupID)
	tx.s.Groups = upsertAll(tx.s.Groups, p.Edited, groupID)
	tx.s.Groups, tx.report.Deleted = deleteAll(tx.s.Groups, p.Deleted)
	tx.report.Created = len(p.Created)
	tx.report.Edited = len(p.Edited)
}

func (tx *txn) applyGroupInvites(p types.GroupInvitesPatch) {
	inviteID := func(i types.PendingGroupInvite) string { return i.ID }
	tx.s.PendingInvites = upsertAll(tx.s.PendingInvites, p.Created, inviteID)
	tx.s.PendingInvites, tx.report.Deleted = deleteAll(tx.s.PendingInvites, p.Deleted)
	tx.report.Created = len(p.Created)
}

// applyBanner merges the change into the status. Entries whose value does
// not change are skipped so the map keeps its identity.
func (tx *txn) applyBanner(p types.BannerPatch) {
	for id, dismissed := range p.Change {
		if cur, ok := tx.s.BannerMessageStatus.Get(id); ok && cur == dismissed {
			continue
		}
		tx.s.BannerMessageStatus = tx.s.BannerMessageStatus.Set(id, dismissed)
		tx.report.Edited++
	}
}

// applyCourses replaces the whole catalog.
func (tx *txn) applyCourses(p types.CoursesPatch) {
	courses := immutable.NewMap[string, []types.Course](nil)
	for key, list := range p.Courses {
		courses = courses.Set(key, list)
	}
	tx.s.Courses = courses
	tx.report.Edited = len(p.Courses)
}
