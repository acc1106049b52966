package types

import (
	"fmt"
	"time"
)

// PatternKind selects how a RepeatingPattern bitset is read.
type PatternKind string

// Repeating pattern kinds. WEEKLY uses 7 bits (Sunday first), BIWEEKLY 14
// bits over two weeks, MONTHLY 31 bits (day 1 first).
const (
	PatternWeekly   PatternKind = "WEEKLY"
	PatternBiweekly PatternKind = "BIWEEKLY"
	PatternMonthly  PatternKind = "MONTHLY"
)

// RepeatingPattern selects the days a repeating task occurs on.
type RepeatingPattern struct {
	Type   PatternKind `json:"type"`
	BitSet uint32      `json:"bitSet"`
}

// RepeatingDate bounds a repeating task. EndDate is inclusive; when
// Occurrences is positive the task ends after that many occurrences and
// EndDate is ignored. With neither set the task repeats forever.
type RepeatingDate struct {
	StartDate   time.Time        `json:"startDate"`
	EndDate     time.Time        `json:"endDate,omitzero"`
	Occurrences int              `json:"occurrences,omitempty"`
	Pattern     RepeatingPattern `json:"pattern"`
}

func (p RepeatingPattern) width() int {
	switch p.Type {
	case PatternWeekly:
		return DaysInWeek
	case PatternBiweekly:
		return 2 * DaysInWeek
	case PatternMonthly:
		return 31
	}
	return 0
}

// Validate checks the pattern kind and that at least one bit is set and
// none lies outside its width.
func (p RepeatingPattern) Validate() error {
	w := p.width()
	if w == 0 {
		return fmt.Errorf("pattern type %q: %w", p.Type, ErrInvalidPattern)
	}
	if p.BitSet == 0 {
		return fmt.Errorf("pattern bitset is empty: %w", ErrInvalidPattern)
	}
	if p.BitSet>>w != 0 {
		return fmt.Errorf("pattern bitset %b wider than %d: %w", p.BitSet, w, ErrInvalidPattern)
	}
	return nil
}

// Validate checks the bounds and the pattern.
func (r RepeatingDate) Validate() error {
	if r.StartDate.IsZero() {
		return ErrInvalidDate
	}
	if r.Occurrences < 0 {
		return fmt.Errorf("negative occurrences: %w", ErrInvalidPattern)
	}
	if r.Occurrences == 0 && !r.EndDate.IsZero() && civilDay(r.EndDate).Before(civilDay(r.StartDate)) {
		return fmt.Errorf("end before start: %w", ErrInvalidDate)
	}
	return r.Pattern.Validate()
}

// DateKey is the civil date of t in its own location, as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseDateKey parses a YYYY-MM-DD key into midnight UTC of that day.
func ParseDateKey(key string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", key, ErrInvalidDate)
	}
	return d, nil
}

// civilDay maps t to midnight UTC of its civil date, so that day arithmetic
// is free of zone offsets and DST.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (p RepeatingPattern) matches(day, start time.Time) bool {
	switch p.Type {
	case PatternWeekly:
		return IsDayOfWeekSet(p.BitSet, int(day.Weekday()))
	case PatternMonthly:
		return IsBitSet(p.BitSet, day.Day()-1, 31)
	case PatternBiweekly:
		anchor := start.AddDate(0, 0, -int(start.Weekday()))
		offset := int(day.Sub(anchor).Hours()/24) % (2 * DaysInWeek)
		return IsBitSet(p.BitSet, offset, 2*DaysInWeek)
	}
	return false
}

// Matches reports whether the repeating task has an occurrence on the
// civil date of date. Forks are not considered here; see DateMatchesRepeats.
func (r RepeatingDate) Matches(date time.Time) bool {
	day := civilDay(date)
	start := civilDay(r.StartDate)
	if day.Before(start) {
		return false
	}
	if r.Occurrences > 0 {
		seen := 0
		for d := start; d.Before(day); d = d.AddDate(0, 0, 1) {
			if !r.Pattern.matches(d, start) {
				continue
			}
			seen++
			if seen >= r.Occurrences {
				return false
			}
		}
		return r.Pattern.matches(day, start)
	}
	if !r.EndDate.IsZero() && day.After(civilDay(r.EndDate)) {
		return false
	}
	return r.Pattern.matches(day, start)
}

// DateMatchesRepeats reports whether the master template hosts a generated
// occurrence on date. A date covered by a fork, whether it points at a
// replacement task or records a deletion, never does.
func DateMatchesRepeats(date time.Time, m MasterTemplate) bool {
	key := DateKey(civilDay(date))
	for _, f := range m.Forks {
		if DateKey(f.ReplaceDate) == key {
			return false
		}
	}
	return m.Date.Matches(date)
}
