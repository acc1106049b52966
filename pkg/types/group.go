package types

import (
	"fmt"
	"time"
)

// Group is a set of users sharing group tasks.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	Deadline  time.Time `json:"deadline"`
	ClassCode string    `json:"classCode,omitempty"`
}

// PendingGroupInvite is an invitation to join a group that the user has not
// answered yet.
type PendingGroupInvite struct {
	ID          string `json:"id"`
	Group       string `json:"group"`
	InviterName string `json:"inviterName"`
}

// Validate checks the fields the reducer relies on.
func (g Group) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("group: %w", ErrInvalidID)
	}
	return nil
}

// Validate checks the fields the reducer relies on.
func (i PendingGroupInvite) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("group invite: %w", ErrInvalidID)
	}
	if i.Group == "" {
		return fmt.Errorf("group invite %s: %w", i.ID, ErrInvalidData)
	}
	return nil
}
