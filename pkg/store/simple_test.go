package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

func TestApplyTags(t *testing.T) {
	s := mustApply(t, Initial(), types.TagsPatch{
		Created: []types.Tag{{ID: "foo", Order: 1, Name: "Foo", Color: "red"}, {ID: "bar", Order: 2, Name: "Bar"}},
	})
	assert.Equal(t, []string{types.NoneTagID, "bar", "foo"}, Keys(s.Tags))

	s = mustApply(t, s, types.TagsPatch{
		Edited:  []types.Tag{{ID: "foo", Order: 1, Name: "Foo!", Color: "blue"}},
		Deleted: []string{"bar", "unknown"},
	})
	foo, ok := s.Tags.Get("foo")
	require.True(t, ok)
	assert.Equal(t, "blue", foo.Color)
	assert.Equal(t, []string{types.NoneTagID, "foo"}, Keys(s.Tags))
}

func TestApplyGroupsAndInvites(t *testing.T) {
	deadline := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := mustApply(t, Initial(),
		types.GroupsPatch{Created: []types.Group{{ID: "g", Name: "Project", Members: []string{"a", "b"}, Deadline: deadline}}},
		types.GroupInvitesPatch{Created: []types.PendingGroupInvite{{ID: "i", Group: "g", InviterName: "Sam"}}},
	)
	g, ok := s.Groups.Get("g")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, g.Members)
	assert.Equal(t, 1, s.PendingInvites.Len())

	s = mustApply(t, s,
		types.GroupInvitesPatch{Deleted: []string{"i"}},
		types.GroupsPatch{Deleted: []string{"g"}},
	)
	assert.Equal(t, 0, s.Groups.Len())
	assert.Equal(t, 0, s.PendingInvites.Len())
}

func TestApplySettingsAndBanner(t *testing.T) {
	calendar := "https://canvas.example.edu/feed.ics"
	s := mustApply(t, Initial(), types.SettingsPatch{Settings: types.Settings{CanvasCalendar: &calendar, Theme: types.ThemeDark}})
	assert.Equal(t, types.ThemeDark, s.Settings.Theme)
	assert.False(t, s.Settings.CompletedOnboarding)

	s = mustApply(t, s, types.BannerPatch{Change: types.BannerMessageStatus{"m1": true}})
	s = mustApply(t, s, types.BannerPatch{Change: types.BannerMessageStatus{"m2": false}})
	assert.Equal(t, types.BannerMessageStatus{"m1": true, "m2": false}, s.Export().BannerMessageStatus)

	same := mustApply(t, s, types.BannerPatch{Change: types.BannerMessageStatus{"m1": true}})
	assert.True(t, same.BannerMessageStatus == s.BannerMessageStatus, "unchanged entries keep identity")
}

func TestApplyCoursesReplacesCatalog(t *testing.T) {
	s := mustApply(t, Initial(),
		types.CoursesPatch{Courses: map[string][]types.Course{"CS2112": {{CourseID: 1, Subject: "CS", CourseNumber: "2112"}}}},
		types.CoursesPatch{Courses: map[string][]types.Course{"MATH1920": {{CourseID: 2, Subject: "MATH", CourseNumber: "1920"}}}},
	)
	assert.Equal(t, []string{"MATH1920"}, Keys(s.Courses))
}

func TestInitial(t *testing.T) {
	s := Initial()
	tag, ok := s.Tags.Get(types.NoneTagID)
	require.True(t, ok)
	assert.Equal(t, types.NoneTag, tag)
	assert.Equal(t, types.DefaultSettings, s.Settings)
	assert.Equal(t, 0, s.Tasks.Len())
}
