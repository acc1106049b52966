package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// MetadataKind discriminates the shapes a task can take.
type MetadataKind string

// Task metadata kinds.
const (
	KindOneTime        MetadataKind = "ONE_TIME"
	KindMasterTemplate MetadataKind = "MASTER_TEMPLATE"
	KindGroup          MetadataKind = "GROUP"
)

// Metadata is the sum type over OneTime, MasterTemplate and GroupTask.
// The set of implementations is closed to this package.
type Metadata interface {
	Kind() MetadataKind
	validate() error
}

// OneTime is a task that happens on a single date. Forks of a repeating
// task are one-time tasks as well.
type OneTime struct {
	Date    time.Time
	ICalUID string
}

// MasterTemplate is the canonical record of a repeating task. Forks
// override individual occurrences.
type MasterTemplate struct {
	Date  RepeatingDate
	Forks []Fork
}

// GroupTask is a task shared inside a group.
type GroupTask struct {
	Date  time.Time
	Group string
}

// Fork overrides the occurrence of a repeating task on ReplaceDate. A nil
// ForkID records that the occurrence was deleted with no replacement.
type Fork struct {
	ForkID      *string   `json:"forkId"`
	ReplaceDate time.Time `json:"replaceDate"`
}

func (OneTime) Kind() MetadataKind        { return KindOneTime }
func (MasterTemplate) Kind() MetadataKind { return KindMasterTemplate }
func (GroupTask) Kind() MetadataKind      { return KindGroup }

func (m OneTime) validate() error {
	if m.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m MasterTemplate) validate() error {
	if err := m.Date.Validate(); err != nil {
		return err
	}
	for _, f := range m.Forks {
		if f.ReplaceDate.IsZero() {
			return ErrInvalidDate
		}
		if f.ForkID != nil && *f.ForkID == "" {
			return ErrInvalidID
		}
	}
	return nil
}

func (m GroupTask) validate() error {
	if m.Group == "" {
		return ErrInvalidMetadata
	}
	if m.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// DatedKey returns the date key under which a task with this metadata is
// indexed. Master templates are not dated; their occurrences are computed.
func DatedKey(m Metadata) (string, bool) {
	switch v := m.(type) {
	case OneTime:
		return DateKey(v.Date), true
	case GroupTask:
		return DateKey(v.Date), true
	}
	return "", false
}

// GroupOf returns the group id of a group task.
func GroupOf(m Metadata) (string, bool) {
	if v, ok := m.(GroupTask); ok {
		return v.Group, true
	}
	return "", false
}

// IsMasterTemplate reports whether m describes a repeating task.
func IsMasterTemplate(m Metadata) bool {
	_, ok := m.(MasterTemplate)
	return ok
}

// metadataJSON is the wire envelope. Date is a timestamp for dated kinds and
// a RepeatingDate object for master templates.
type metadataJSON struct {
	Type    MetadataKind    `json:"type"`
	Date    json.RawMessage `json:"date"`
	ICalUID string          `json:"icalUID,omitempty"`
	Group   string          `json:"group,omitempty"`
	Forks   []Fork          `json:"forks,omitempty"`
}

func marshalMetadata(m Metadata) (json.RawMessage, error) {
	var (
		env  metadataJSON
		date any
	)
	switch v := m.(type) {
	case OneTime:
		env = metadataJSON{Type: KindOneTime, ICalUID: v.ICalUID}
		date = v.Date
	case MasterTemplate:
		env = metadataJSON{Type: KindMasterTemplate, Forks: v.Forks}
		if env.Forks == nil {
			env.Forks = []Fork{}
		}
		date = v.Date
	case GroupTask:
		env = metadataJSON{Type: KindGroup, Group: v.Group}
		date = v.Date
	case nil:
		return json.RawMessage("null"), nil
	default:
		return nil, fmt.Errorf("metadata %T: %w", m, ErrInvalidMetadata)
	}
	raw, err := json.Marshal(date)
	if err != nil {
		return nil, err
	}
	env.Date = raw
	return json.Marshal(env)
}

func unmarshalMetadata(data []byte) (Metadata, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var env metadataJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Type {
	case KindOneTime:
		var d time.Time
		if err := json.Unmarshal(env.Date, &d); err != nil {
			return nil, fmt.Errorf("one-time date: %w", err)
		}
		return OneTime{Date: d, ICalUID: env.ICalUID}, nil
	case KindMasterTemplate:
		var rd RepeatingDate
		if err := json.Unmarshal(env.Date, &rd); err != nil {
			return nil, fmt.Errorf("repeating date: %w", err)
		}
		forks := env.Forks
		if forks == nil {
			forks = []Fork{}
		}
		return MasterTemplate{Date: rd, Forks: forks}, nil
	case KindGroup:
		var d time.Time
		if err := json.Unmarshal(env.Date, &d); err != nil {
			return nil, fmt.Errorf("group date: %w", err)
		}
		return GroupTask{Date: d, Group: env.Group}, nil
	}
	return nil, fmt.Errorf("metadata type %q: %w", env.Type, ErrInvalidMetadata)
}
