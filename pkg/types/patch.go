package types

import "fmt"

// PatchKind identifies the entity stream a patch belongs to.
type PatchKind string

// Patch kinds, one per listener stream.
const (
	PatchTags         PatchKind = "tags"
	PatchTasks        PatchKind = "tasks"
	PatchSubTasks     PatchKind = "subtasks"
	PatchSettings     PatchKind = "settings"
	PatchBanner       PatchKind = "banner"
	PatchCourses      PatchKind = "courses"
	PatchGroups       PatchKind = "groups"
	PatchGroupInvites PatchKind = "group_invites"
)

// Patch describes the entities of one kind created, edited and deleted
// since the previous observation of that stream. Edited entities carry
// their complete new value. The implementations are closed to this package.
type Patch interface {
	Kind() PatchKind
	Validate() error
	isPatch()
}

// TagsPatch is a change set of the tags stream.
type TagsPatch struct {
	Created []Tag    `json:"created"`
	Edited  []Tag    `json:"edited"`
	Deleted []string `json:"deleted"`
}

// TasksPatch is a change set of the tasks stream.
type TasksPatch struct {
	Created []TaskDoc `json:"created"`
	Edited  []TaskDoc `json:"edited"`
	Deleted []string  `json:"deleted"`
}

// SubTasksPatch is a change set of the subtasks stream.
type SubTasksPatch struct {
	Created []SubTask `json:"created"`
	Edited  []SubTask `json:"edited"`
	Deleted []string  `json:"deleted"`
}

// SettingsPatch replaces the user settings.
type SettingsPatch struct {
	Settings Settings `json:"settings"`
}

// BannerPatch merges Change into the banner message status.
type BannerPatch struct {
	Change BannerMessageStatus `json:"change"`
}

// CoursesPatch replaces the course catalog.
type CoursesPatch struct {
	Courses map[string][]Course `json:"courses"`
}

// GroupsPatch is a change set of the groups stream.
type GroupsPatch struct {
	Created []Group  `json:"created"`
	Edited  []Group  `json:"edited"`
	Deleted []string `json:"deleted"`
}

// GroupInvitesPatch is a change set of the pending invites stream.
type GroupInvitesPatch struct {
	Created []PendingGroupInvite `json:"created"`
	Deleted []string             `json:"deleted"`
}

func (TagsPatch) Kind() PatchKind         { return PatchTags }
func (TasksPatch) Kind() PatchKind        { return PatchTasks }
func (SubTasksPatch) Kind() PatchKind     { return PatchSubTasks }
func (SettingsPatch) Kind() PatchKind     { return PatchSettings }
func (BannerPatch) Kind() PatchKind       { return PatchBanner }
func (CoursesPatch) Kind() PatchKind      { return PatchCourses }
func (GroupsPatch) Kind() PatchKind       { return PatchGroups }
func (GroupInvitesPatch) Kind() PatchKind { return PatchGroupInvites }

func (TagsPatch) isPatch()         {}
func (TasksPatch) isPatch()        {}
func (SubTasksPatch) isPatch()     {}
func (SettingsPatch) isPatch()     {}
func (BannerPatch) isPatch()       {}
func (CoursesPatch) isPatch()      {}
func (GroupsPatch) isPatch()       {}
func (GroupInvitesPatch) isPatch() {}

func validateDeleted(kind PatchKind, ids []string) error {
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%s deleted: %w", kind, ErrInvalidID)
		}
	}
	return nil
}

// Validate checks every entity in the patch.
func (p TagsPatch) Validate() error {
	for _, t := range p.Created {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, t := range p.Edited {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return validateDeleted(PatchTags, p.Deleted)
}

// Validate checks every entity in the patch.
func (p TasksPatch) Validate() error {
	for _, t := range p.Created {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, t := range p.Edited {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return validateDeleted(PatchTasks, p.Deleted)
}

// Validate checks every entity in the patch.
func (p SubTasksPatch) Validate() error {
	for _, s := range p.Created {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	for _, s := range p.Edited {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return validateDeleted(PatchSubTasks, p.Deleted)
}

// Validate checks the theme.
func (p SettingsPatch) Validate() error { return p.Settings.Validate() }

// Validate rejects empty message ids.
func (p BannerPatch) Validate() error {
	for id := range p.Change {
		if id == "" {
			return fmt.Errorf("banner message: %w", ErrInvalidID)
		}
	}
	return nil
}

// Validate rejects empty catalog keys.
func (p CoursesPatch) Validate() error {
	for key := range p.Courses {
		if key == "" {
			return fmt.Errorf("course key: %w", ErrInvalidID)
		}
	}
	return nil
}

// Validate checks every entity in the patch.
func (p GroupsPatch) Validate() error {
	for _, g := range p.Created {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	for _, g := range p.Edited {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return validateDeleted(PatchGroups, p.Deleted)
}

// Validate checks every entity in the patch.
func (p GroupInvitesPatch) Validate() error {
	for _, i := range p.Created {
		if err := i.Validate(); err != nil {
			return err
		}
	}
	return validateDeleted(PatchGroupInvites, p.Deleted)
}
