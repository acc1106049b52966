package types

import (
	"encoding/json"
	"fmt"
)

// TaskDoc is a task as delivered by the tasks listener. Children names the
// subtasks by id; the subtasks themselves arrive on a separate stream.
type TaskDoc struct {
	ID       string
	Order    int64
	Owner    string
	Name     string
	Tag      string
	Complete bool
	InFocus  bool
	Children []string
	Metadata Metadata
}

// Task is a task in reconciled state. Children holds the subtasks that have
// arrived, sorted by order.
type Task struct {
	ID       string
	Order    int64
	Owner    string
	Name     string
	Tag      string
	Complete bool
	InFocus  bool
	Children []SubTask
	Metadata Metadata
}

// Validate checks that the document can be reconciled.
func (d TaskDoc) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("task: %w", ErrInvalidID)
	}
	if d.Metadata == nil {
		return fmt.Errorf("task %s: %w", d.ID, ErrInvalidMetadata)
	}
	if err := d.Metadata.validate(); err != nil {
		return fmt.Errorf("task %s: %w", d.ID, err)
	}
	for _, c := range d.Children {
		if c == "" {
			return fmt.Errorf("task %s child: %w", d.ID, ErrInvalidID)
		}
	}
	return nil
}

// Materialize returns the reconciled task for d with the given children.
func (d TaskDoc) Materialize(children []SubTask) Task {
	return Task{
		ID:       d.ID,
		Order:    d.Order,
		Owner:    d.Owner,
		Name:     d.Name,
		Tag:      d.Tag,
		Complete: d.Complete,
		InFocus:  d.InFocus,
		Children: children,
		Metadata: d.Metadata,
	}
}

// Doc returns the wire form of t, naming its materialized children by id.
// Children that have not arrived yet are not known to t and are not listed.
func (t Task) Doc() TaskDoc {
	ids := make([]string, len(t.Children))
	for i, c := range t.Children {
		ids[i] = c.ID
	}
	return TaskDoc{
		ID:       t.ID,
		Order:    t.Order,
		Owner:    t.Owner,
		Name:     t.Name,
		Tag:      t.Tag,
		Complete: t.Complete,
		InFocus:  t.InFocus,
		Children: ids,
		Metadata: t.Metadata,
	}
}

type taskDocJSON struct {
	ID       string          `json:"id"`
	Order    int64           `json:"order"`
	Owner    string          `json:"owner"`
	Name     string          `json:"name"`
	Tag      string          `json:"tag"`
	Complete bool            `json:"complete"`
	InFocus  bool            `json:"inFocus"`
	Children []string        `json:"children"`
	Metadata json.RawMessage `json:"metadata"`
}

type taskJSON struct {
	ID       string          `json:"id"`
	Order    int64           `json:"order"`
	Owner    string          `json:"owner"`
	Name     string          `json:"name"`
	Tag      string          `json:"tag"`
	Complete bool            `json:"complete"`
	InFocus  bool            `json:"inFocus"`
	Children []SubTask       `json:"children"`
	Metadata json.RawMessage `json:"metadata"`
}

// MarshalJSON encodes the metadata with its type discriminator.
func (d TaskDoc) MarshalJSON() ([]byte, error) {
	meta, err := marshalMetadata(d.Metadata)
	if err != nil {
		return nil, err
	}
	children := d.Children
	if children == nil {
		children = []string{}
	}
	return json.Marshal(taskDocJSON{
		ID: d.ID, Order: d.Order, Owner: d.Owner, Name: d.Name, Tag: d.Tag,
		Complete: d.Complete, InFocus: d.InFocus, Children: children, Metadata: meta,
	})
}

// UnmarshalJSON decodes the metadata envelope into the matching kind.
func (d *TaskDoc) UnmarshalJSON(data []byte) error {
	var raw taskDocJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	meta, err := unmarshalMetadata(raw.Metadata)
	if err != nil {
		return fmt.Errorf("task %s: %w", raw.ID, err)
	}
	*d = TaskDoc{
		ID: raw.ID, Order: raw.Order, Owner: raw.Owner, Name: raw.Name, Tag: raw.Tag,
		Complete: raw.Complete, InFocus: raw.InFocus, Children: raw.Children, Metadata: meta,
	}
	return nil
}

// MarshalJSON encodes the metadata with its type discriminator.
func (t Task) MarshalJSON() ([]byte, error) {
	meta, err := marshalMetadata(t.Metadata)
	if err != nil {
		return nil, err
	}
	children := t.Children
	if children == nil {
		children = []SubTask{}
	}
	return json.Marshal(taskJSON{
		ID: t.ID, Order: t.Order, Owner: t.Owner, Name: t.Name, Tag: t.Tag,
		Complete: t.Complete, InFocus: t.InFocus, Children: children, Metadata: meta,
	})
}

// UnmarshalJSON decodes the metadata envelope into the matching kind.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw taskJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	meta, err := unmarshalMetadata(raw.Metadata)
	if err != nil {
		return fmt.Errorf("task %s: %w", raw.ID, err)
	}
	*t = Task{
		ID: raw.ID, Order: raw.Order, Owner: raw.Owner, Name: raw.Name, Tag: raw.Tag,
		Complete: raw.Complete, InFocus: raw.InFocus, Children: raw.Children, Metadata: meta,
	}
	return nil
}
