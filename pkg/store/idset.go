package store

import (
	"slices"

	"github.com/benbjohnson/immutable"
)

// IDSet is a persistent set of entity ids. The zero value is an empty set.
// Add and Remove return a new set and leave the receiver untouched; when the
// call would not change membership the receiver itself is returned, so
// identity comparisons (Same) stay valid across no-op writes.
type IDSet struct {
	m *immutable.Map[string, struct{}]
}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...string) IDSet {
	var s IDSet
	for _, id := range ids {
		s = s.Add(id)
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	if s.m == nil {
		return false
	}
	_, ok := s.m.Get(id)
	return ok
}

// Add returns the set with id added.
func (s IDSet) Add(id string) IDSet {
	if s.Has(id) {
		return s
	}
	m := s.m
	if m == nil {
		m = immutable.NewMap[string, struct{}](nil)
	}
	return IDSet{m: m.Set(id, struct{}{})}
}

// Remove returns the set without id.
func (s IDSet) Remove(id string) IDSet {
	if !s.Has(id) {
		return s
	}
	return IDSet{m: s.m.Delete(id)}
}

// Len returns the number of ids in the set.
func (s IDSet) Len() int {
	if s.m == nil {
		return 0
	}
	return s.m.Len()
}

// IDs returns the members in ascending order.
func (s IDSet) IDs() []string {
	ids := make([]string, 0, s.Len())
	if s.m == nil {
		return ids
	}
	itr := s.m.Iterator()
	for !itr.Done() {
		id, _, _ := itr.Next()
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Same reports whether s and other share the same underlying structure.
// Two sets that are Same are equal; equal sets need not be Same.
func (s IDSet) Same(other IDSet) bool {
	return s.m == other.m
}
