package selectors

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/benbjohnson/immutable"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mesh-intelligence/samwise/pkg/store"
	"github.com/mesh-intelligence/samwise/pkg/types"
)

// IDOrder is an entry of an ordered id list.
type IDOrder struct {
	ID    string `json:"id"`
	Order int64  `json:"order"`
}

func compareIDOrder(a, b IDOrder) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// memo caches the value computed for the last key seen.
type memo[K comparable, V any] struct {
	key K
	val V
	ok  bool
}

func (m *memo[K, V]) get(key K, compute func() V) V {
	if m.ok && m.key == key {
		return m.val
	}
	m.key, m.val, m.ok = key, compute(), true
	return m.val
}

type tasksMap = *immutable.Map[string, types.Task]

type dateKey struct {
	tasks    tasksMap
	bucket   store.IDSet
	repeated store.IDSet
}

type groupKey struct {
	tasks  tasksMap
	bucket store.IDSet
}

// Selectors holds the memo slots of every view. The zero value is not
// usable; create one with New. It is safe for concurrent use.
type Selectors struct {
	mu       sync.Mutex
	progress memo[tasksMap, Progress]
	focus    memo[tasksMap, FocusViewProps]
	tags     memo[*immutable.Map[string, types.Tag], []types.Tag]
	banner   memo[*immutable.Map[string, bool], *Message]

	byDate  *lru.Cache[string, *memo[dateKey, []IDOrder]]
	byGroup *lru.Cache[string, *memo[groupKey, []IDOrder]]

	messages []Message
}

// Option configures Selectors.
type Option func(*options)

type options struct {
	cacheSize int
	messages  []Message
}

// WithCacheSize bounds the number of dates and groups whose lists are kept.
// Values below one select types.DefaultSelectorCacheSize.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithBannerMessages sets the messages eligible for display, latest first.
func WithBannerMessages(msgs ...Message) Option {
	return func(o *options) { o.messages = msgs }
}

// New returns Selectors with empty memo slots.
func New(opts ...Option) (*Selectors, error) {
	o := options{cacheSize: types.DefaultSelectorCacheSize, messages: ActiveMessages}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cacheSize < 1 {
		o.cacheSize = types.DefaultSelectorCacheSize
	}
	byDate, err := lru.New[string, *memo[dateKey, []IDOrder]](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating date cache: %w", err)
	}
	byGroup, err := lru.New[string, *memo[groupKey, []IDOrder]](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating group cache: %w", err)
	}
	return &Selectors{byDate: byDate, byGroup: byGroup, messages: o.messages}, nil
}

// Progress aggregates progress over the in-focus tasks.
func (s *Selectors) Progress(st store.State) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked(st)
}

func (s *Selectors) progressLocked(st store.State) Progress {
	return s.progress.get(st.Tasks, func() Progress {
		return ComputeProgress(tasksInFocus(st.Tasks))
	})
}

func tasksInFocus(tasks tasksMap) []types.Task {
	var out []types.Task
	itr := tasks.Iterator()
	for !itr.Done() {
		_, t, _ := itr.Next()
		if InFocus(t) {
			out = append(out, t)
		}
	}
	return out
}

// FocusViewTask places a task in the focus view. A task with both an
// incomplete and a complete remnant is listed twice.
type FocusViewTask struct {
	ID                  string `json:"id"`
	Order               int64  `json:"order"`
	InFocusView         bool   `json:"inFocusView"`
	InCompleteFocusView bool   `json:"inCompleteFocusView"`
}

// FocusViewProps is what the focus view renders.
type FocusViewProps struct {
	Tasks    []FocusViewTask `json:"tasks"`
	Progress Progress        `json:"progress"`
}

// FocusView lists every task with its focus-view placement, sorted by order
// then id, together with the progress. The list is a copy of the cached one.
func (s *Selectors) FocusView(st store.State) FocusViewProps {
	s.mu.Lock()
	defer s.mu.Unlock()
	progress := s.progressLocked(st)
	props := s.focus.get(st.Tasks, func() FocusViewProps {
		list := make([]FocusViewTask, 0, st.Tasks.Len())
		itr := st.Tasks.Iterator()
		for !itr.Done() {
			id, t, _ := itr.Next()
			_, incomplete := FilterIncompleteFocus(t)
			_, complete := FilterCompleteFocus(t)
			switch {
			case complete && incomplete:
				list = append(list,
					FocusViewTask{ID: id, Order: t.Order, InFocusView: true, InCompleteFocusView: true},
					FocusViewTask{ID: id, Order: t.Order, InFocusView: true, InCompleteFocusView: false},
				)
			case complete:
				list = append(list, FocusViewTask{ID: id, Order: t.Order, InFocusView: true, InCompleteFocusView: true})
			case incomplete:
				list = append(list, FocusViewTask{ID: id, Order: t.Order, InFocusView: true})
			default:
				list = append(list, FocusViewTask{ID: id, Order: t.Order})
			}
		}
		slices.SortStableFunc(list, func(a, b FocusViewTask) int {
			return compareIDOrder(IDOrder{a.ID, a.Order}, IDOrder{b.ID, b.Order})
		})
		return FocusViewProps{Tasks: list, Progress: progress}
	})
	props.Tasks = slices.Clone(props.Tasks)
	return props
}

// IDOrderListByDate lists the tasks on the date key: dated tasks indexed
// under it and repeating tasks whose recurrence hosts an occurrence on it.
// Unknown or malformed dates yield an empty list. Callers own the returned
// slice.
func (s *Selectors) IDOrderListByDate(st store.State, date string) []IDOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byDate.Get(date)
	if !ok {
		m = &memo[dateKey, []IDOrder]{}
		s.byDate.Add(date, m)
	}
	key := dateKey{tasks: st.Tasks, bucket: st.DateBucket(date), repeated: st.RepeatedTaskSet}
	return slices.Clone(m.get(key, func() []IDOrder {
		return listByDate(st, date, key.bucket)
	}))
}

func listByDate(st store.State, date string, bucket store.IDSet) []IDOrder {
	list := idOrders(st.Tasks, bucket)
	day, err := types.ParseDateKey(date)
	if err != nil {
		return list
	}
	for _, id := range st.RepeatedTaskSet.IDs() {
		t, ok := st.Tasks.Get(id)
		if !ok {
			continue
		}
		master, ok := t.Metadata.(types.MasterTemplate)
		if ok && types.DateMatchesRepeats(day, master) {
			list = append(list, IDOrder{ID: id, Order: t.Order})
		}
	}
	slices.SortFunc(list, compareIDOrder)
	return list
}

// IDOrderListByGroup lists the tasks shared in the group. Unknown groups
// yield an empty list. Callers own the returned slice.
func (s *Selectors) IDOrderListByGroup(st store.State, groupID string) []IDOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byGroup.Get(groupID)
	if !ok {
		m = &memo[groupKey, []IDOrder]{}
		s.byGroup.Add(groupID, m)
	}
	key := groupKey{tasks: st.Tasks, bucket: st.GroupBucket(groupID)}
	return slices.Clone(m.get(key, func() []IDOrder {
		list := idOrders(st.Tasks, key.bucket)
		slices.SortFunc(list, compareIDOrder)
		return list
	}))
}

func idOrders(tasks tasksMap, ids store.IDSet) []IDOrder {
	list := make([]IDOrder, 0, ids.Len())
	for _, id := range ids.IDs() {
		if t, ok := tasks.Get(id); ok {
			list = append(list, IDOrder{ID: id, Order: t.Order})
		}
	}
	return list
}

// OrderedTags returns a copy of the tags sorted by order then id. NONE
// sorts first since its order lies below every allocated one.
func (s *Selectors) OrderedTags(st store.State) []types.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tags.get(st.Tags, func() []types.Tag {
		tags := make([]types.Tag, 0, st.Tags.Len())
		itr := st.Tags.Iterator()
		for !itr.Done() {
			_, t, _ := itr.Next()
			tags = append(tags, t)
		}
		slices.SortFunc(tags, func(a, b types.Tag) int {
			if c := cmp.Compare(a.Order, b.Order); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
		return tags
	}))
}

// BannerMessage returns the latest eligible message the user has not
// dismissed, or nil.
func (s *Selectors) BannerMessage(st store.State) *Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner.get(st.BannerMessageStatus, func() *Message {
		return findMessage(s.messages, st.BannerMessageStatus)
	})
}

// TagByID returns the tag with the id, or the NONE tag when it is unknown.
func TagByID(st store.State, id string) types.Tag {
	if t, ok := st.Tags.Get(id); ok {
		return t
	}
	return types.NoneTag
}

// TaskByID returns the task with the id.
func TaskByID(st store.State, id string) (types.Task, bool) {
	return st.Tasks.Get(id)
}
