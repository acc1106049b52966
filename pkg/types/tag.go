package types

import "fmt"

// NoneTagID identifies the built-in tag used by tasks that carry no tag.
const NoneTagID = "NONE"

// NoneTag is present in every initial state and is returned by tag lookups
// for unknown ids. Its order lies below every allocated order, which start
// at 0, so it always sorts first.
var NoneTag = Tag{ID: NoneTagID, Order: -1, Name: "None", Color: "gray"}

// Tag labels tasks. ClassID links the tag to a course catalog entry; it is
// nil for ordinary tags.
type Tag struct {
	ID      string  `json:"id"`
	Order   int64   `json:"order"`
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	ClassID *string `json:"classId"`
}

// Validate checks the fields the reducer relies on.
func (t Tag) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tag: %w", ErrInvalidID)
	}
	return nil
}
