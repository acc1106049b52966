package patchlog

import (
	"fmt"

	"github.com/mesh-intelligence/samwise/pkg/store"
)

// Replay dispatches the entries into s in order. It stops at the first
// rejected patch and reports its log position.
func Replay(s *store.Store, entries []Entry) ([]store.Report, error) {
	reports := make([]store.Report, 0, len(entries))
	for _, e := range entries {
		report, err := s.Dispatch(e.Patch)
		if err != nil {
			return reports, fmt.Errorf("%s:%d: %w", e.Path, e.Line, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
