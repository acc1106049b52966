package patchlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/samwise/pkg/store"
	"github.com/mesh-intelligence/samwise/pkg/types"
)

// Compact returns patches that rebuild st from the initial state: one
// creation patch per stream, subtasks before the tasks that declare them.
// Entities are listed by id so the output is deterministic.
func Compact(st store.State) []types.Patch {
	var patches []types.Patch

	var tags types.TagsPatch
	for _, id := range store.Keys(st.Tags) {
		t, _ := st.Tags.Get(id)
		if t != types.NoneTag {
			tags.Created = append(tags.Created, t)
		}
	}
	if _, ok := st.Tags.Get(types.NoneTagID); !ok {
		tags.Deleted = []string{types.NoneTagID}
	}
	if len(tags.Created) > 0 || len(tags.Deleted) > 0 {
		patches = append(patches, tags)
	}

	if st.Settings != types.DefaultSettings {
		patches = append(patches, types.SettingsPatch{Settings: st.Settings})
	}
	if st.BannerMessageStatus.Len() > 0 {
		change := make(types.BannerMessageStatus, st.BannerMessageStatus.Len())
		for _, id := range store.Keys(st.BannerMessageStatus) {
			change[id], _ = st.BannerMessageStatus.Get(id)
		}
		patches = append(patches, types.BannerPatch{Change: change})
	}
	if st.Courses.Len() > 0 {
		courses := make(map[string][]types.Course, st.Courses.Len())
		for _, key := range store.Keys(st.Courses) {
			courses[key], _ = st.Courses.Get(key)
		}
		patches = append(patches, types.CoursesPatch{Courses: courses})
	}

	var groups types.GroupsPatch
	for _, id := range store.Keys(st.Groups) {
		g, _ := st.Groups.Get(id)
		groups.Created = append(groups.Created, g)
	}
	if len(groups.Created) > 0 {
		patches = append(patches, groups)
	}
	var invites types.GroupInvitesPatch
	for _, id := range store.Keys(st.PendingInvites) {
		i, _ := st.PendingInvites.Get(id)
		invites.Created = append(invites.Created, i)
	}
	if len(invites.Created) > 0 {
		patches = append(patches, invites)
	}

	var subtasks types.SubTasksPatch
	var tasks types.TasksPatch
	for _, id := range store.Keys(st.Tasks) {
		t, _ := st.Tasks.Get(id)
		subtasks.Created = append(subtasks.Created, t.Children...)
		doc, _ := st.TaskDoc(id)
		tasks.Created = append(tasks.Created, doc)
	}
	for _, id := range store.Keys(st.OrphanSubTasks) {
		s, _ := st.OrphanSubTasks.Get(id)
		subtasks.Created = append(subtasks.Created, s)
	}
	if len(subtasks.Created) > 0 {
		patches = append(patches, subtasks)
	}
	if len(tasks.Created) > 0 {
		patches = append(patches, tasks)
	}
	return patches
}

// Rewrite replaces the log at path with the patches. The new log is written
// to a temporary file in the same directory, synced, and renamed over path,
// so readers see either the old log or the new one.
func Rewrite(path string, patches []types.Patch) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".patches-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	for _, p := range patches {
		line, err := Encode(p)
		if err != nil {
			return fail(err)
		}
		if _, err := w.Write(line); err != nil {
			return fail(fmt.Errorf("writing patch: %w", err))
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail(fmt.Errorf("writing newline: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
