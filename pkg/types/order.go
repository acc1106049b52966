package types

import (
	"context"
	"fmt"
)

// OrderKind names the counter an order is allocated from.
type OrderKind string

// Order kinds. Subtask orders are relative to their siblings and are not
// allocated.
const (
	OrderTags  OrderKind = "tags"
	OrderTasks OrderKind = "tasks"
)

// Validate rejects unknown kinds.
func (k OrderKind) Validate() error {
	switch k {
	case OrderTags, OrderTasks:
		return nil
	}
	return fmt.Errorf("order kind %q: %w", k, ErrInvalidOrderKind)
}

// OrderAllocator hands out monotonically increasing orders. A call reserves
// the range [start, start+count) for the caller; concurrent callers for the
// same owner never receive overlapping ranges.
type OrderAllocator interface {
	AllocateOrder(ctx context.Context, kind OrderKind, count int) (int64, error)
}

// OrderStore is an OrderAllocator backed by storage that must be attached
// before use and detached when done.
type OrderStore interface {
	OrderAllocator
	Attach(config Config) error
	Detach() error
}
