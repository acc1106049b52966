package store

import (
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

// Store holds the current State and applies patches to it one at a time.
// It is safe for concurrent use.
type Store struct {
	dispatchMu sync.Mutex // serializes Dispatch, including notification

	mu     sync.RWMutex
	state  State
	subs   []subscriber
	nextID int

	logger *slog.Logger
}

type subscriber struct {
	id int
	fn func(State)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithState starts the store from st instead of Initial().
func WithState(st State) Option {
	return func(s *Store) { s.state = st }
}

// New returns a Store.
func New(opts ...Option) *Store {
	s := &Store{
		state:  Initial(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies p to the current state and notifies subscribers with the
// result. A rejected patch leaves the state unchanged and notifies no one.
// Subscribers run on the dispatching goroutine and must not call Dispatch.
func (s *Store) Dispatch(p types.Patch) (Report, error) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	next, report, err := ApplyWithReport(s.State(), p)
	if err != nil {
		s.logger.Warn("patch rejected", "kind", report.Kind, "error", err)
		return report, err
	}

	s.mu.Lock()
	s.state = next
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.logger.Debug("patch applied",
		"kind", report.Kind,
		"created", report.Created,
		"edited", report.Edited,
		"deleted", report.Deleted,
		"resolved", report.Resolved,
		"awaiting", report.Awaiting,
		"parked", report.Parked,
	)
	if len(report.Dropped) > 0 {
		s.logger.Info("subtask edits dropped", "ids", report.Dropped)
	}

	for _, sub := range subs {
		sub.fn(next)
	}
	return report, nil
}

// Subscribe registers fn to be called after every applied patch. The
// returned func removes the subscription; calling it more than once is safe.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
