// Shared helpers for samwise CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/gosuri/uitable"

	"github.com/mesh-intelligence/samwise/internal/patchlog"
	"github.com/mesh-intelligence/samwise/pkg/sqlite"
	"github.com/mesh-intelligence/samwise/pkg/store"
	"github.com/mesh-intelligence/samwise/pkg/types"
)

// session is the state a command works against: the order allocator and
// the store rebuilt from the patch log. The caller must defer close.
type session struct {
	config  types.Config
	orders  types.OrderStore
	store   *store.Store
	logPath string
	patches int // patches replayed from the log
}

// openSession resolves the data directory, attaches the order allocator and
// replays the patch log into a fresh store.
func openSession() (*session, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	config := configFromViper(cfg, dataDir)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	orders := sqlite.NewBackend(logger)
	if err := orders.Attach(config); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	logPath := filepath.Join(dataDir, patchlog.FileName)
	entries, err := patchlog.Read(logPath)
	if err != nil {
		orders.Detach()
		return nil, err
	}
	st := store.New(store.WithLogger(logger))
	if _, err := patchlog.Replay(st, entries); err != nil {
		orders.Detach()
		return nil, err
	}
	logger.Debug("session opened", "data_dir", dataDir, "patches", len(entries))

	return &session{config: config, orders: orders, store: st, logPath: logPath, patches: len(entries)}, nil
}

func (s *session) close() error {
	return s.orders.Detach()
}

func (s *session) state() store.State {
	return s.store.State()
}

// commit dispatches the patches and, when all of them apply, appends them to
// the patch log in the same order.
func (s *session) commit(patches ...types.Patch) error {
	for _, p := range patches {
		if _, err := s.store.Dispatch(p); err != nil {
			return err
		}
	}
	return patchlog.Append(s.logPath, patches...)
}

func (s *session) nextOrder(ctx context.Context, kind types.OrderKind) (int64, error) {
	order, err := s.orders.AllocateOrder(ctx, kind, 1)
	if err != nil {
		return 0, fmt.Errorf("allocate %s order: %w", kind, err)
	}
	return order, nil
}

// task looks up the task with id.
func (s *session) task(id string) (types.Task, error) {
	t, ok := s.state().Tasks.Get(id)
	if !ok {
		return types.Task{}, fmt.Errorf("task %s: %w", id, types.ErrNotFound)
	}
	return t, nil
}

// taskDoc returns the wire form of t listing every child it declares,
// including those still recorded as missing.
func (s *session) taskDoc(t types.Task) types.TaskDoc {
	doc, _ := s.state().TaskDoc(t.ID)
	return doc
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("mint id: %w", err)
	}
	return id.String(), nil
}

// parseDateOrToday parses a YYYY-MM-DD flag value; empty means today.
func parseDateOrToday(s string) (time.Time, error) {
	if s == "" {
		s = types.DateKey(time.Now())
	}
	return types.ParseDateKey(s)
}

var weekdays = []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// parseRepeat parses a recurrence of the form kind:days, where kind is
// weekly, biweekly or monthly. Weekly days are names (sun..sat) or indexes
// 0-6; biweekly days are indexes 0-13 counted from the Sunday on or before
// the start date; monthly days are 1-31.
func parseRepeat(s string) (types.RepeatingPattern, error) {
	kind, days, ok := strings.Cut(s, ":")
	if !ok || days == "" {
		return types.RepeatingPattern{}, fmt.Errorf("repeat %q: want kind:days: %w", s, types.ErrInvalidPattern)
	}

	var (
		p     types.RepeatingPattern
		width int
		base  int
	)
	switch strings.ToLower(kind) {
	case "weekly":
		p.Type, width = types.PatternWeekly, types.DaysInWeek
	case "biweekly":
		p.Type, width = types.PatternBiweekly, 2*types.DaysInWeek
	case "monthly":
		p.Type, width, base = types.PatternMonthly, 31, 1
	default:
		return types.RepeatingPattern{}, fmt.Errorf("repeat kind %q: %w", kind, types.ErrInvalidPattern)
	}

	for _, field := range strings.Split(days, ",") {
		field = strings.ToLower(strings.TrimSpace(field))
		d := slices.Index(weekdays, field)
		if d < 0 || p.Type != types.PatternWeekly {
			n, err := strconv.Atoi(field)
			if err != nil {
				return types.RepeatingPattern{}, fmt.Errorf("repeat day %q: %w", field, types.ErrInvalidPattern)
			}
			d = n - base
		}
		if d < 0 || d >= width {
			return types.RepeatingPattern{}, fmt.Errorf("repeat day %q out of range: %w", field, types.ErrInvalidPattern)
		}
		if p.Type == types.PatternWeekly {
			p.BitSet = types.SetDayOfWeek(p.BitSet, d)
		} else {
			p.BitSet = types.SetBit(p.BitSet, d, width)
		}
	}
	return p, nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// newTable returns a table whose first row holds the bold headers.
func newTable(headers ...string) *uitable.Table {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = bold.Sprint(h)
	}
	tbl.AddRow(row...)
	return tbl
}

func check(done bool) string {
	if done {
		return "x"
	}
	return " "
}

// progressOf renders the completed/total children of t.
func progressOf(t types.Task) string {
	done := 0
	for _, c := range t.Children {
		if c.Complete {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(t.Children))
}
