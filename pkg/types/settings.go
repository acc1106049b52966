package types

import "fmt"

// Theme is the user's color scheme.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings are the per-user preferences.
type Settings struct {
	CanvasCalendar      *string `json:"canvasCalendar"`
	CompletedOnboarding bool    `json:"completedOnboarding"`
	Theme               Theme   `json:"theme"`
}

// DefaultSettings is the placeholder used until the settings listener
// reports the stored document.
var DefaultSettings = Settings{CompletedOnboarding: true, Theme: ThemeLight}

// Validate rejects unknown themes.
func (s Settings) Validate() error {
	switch s.Theme {
	case ThemeLight, ThemeDark:
		return nil
	}
	return fmt.Errorf("theme %q: %w", s.Theme, ErrInvalidData)
}

// BannerMessageStatus records, per banner message id, whether the user has
// dismissed the message.
type BannerMessageStatus map[string]bool

// ExamTime is a scheduled exam of a course.
type ExamTime struct {
	Type string `json:"type"`
	Time int64  `json:"time"`
}

// Course is an entry of the externally supplied course catalog, keyed in
// state by subject and course number (e.g. "CS2112").
type Course struct {
	CourseID     int        `json:"courseId"`
	Subject      string     `json:"subject"`
	CourseNumber string     `json:"courseNumber"`
	Title        string     `json:"title"`
	ExamTimes    []ExamTime `json:"examTimes"`
}
