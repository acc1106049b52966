package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

var orderColumns = map[types.OrderKind]string{
	types.OrderTags:  "tags_max_order",
	types.OrderTasks: "tasks_max_order",
}

// AllocateOrder reserves count consecutive orders of the kind and returns
// the first. The first allocation for an owner starts at 0.
func (b *Backend) AllocateOrder(ctx context.Context, kind types.OrderKind, count int) (int64, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}
	if count < 1 {
		return 0, fmt.Errorf("allocating %d %s orders: %w", count, kind, types.ErrInvalidCount)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return 0, types.ErrDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO order_managers (owner, tags_max_order, tasks_max_order, updated_at) VALUES (?, 0, 0, ?)`,
		b.config.Owner, now)
	if err != nil {
		return 0, fmt.Errorf("creating counter for %s: %w", b.config.Owner, err)
	}

	column := orderColumns[kind]
	var next int64
	err = tx.QueryRowContext(ctx,
		`UPDATE order_managers SET `+column+` = `+column+` + ?, updated_at = ? WHERE owner = ? RETURNING `+column,
		count, now, b.config.Owner).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("incrementing %s counter: %w", kind, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing allocation: %w", err)
	}

	start := next - int64(count)
	b.logger.Debug("orders allocated", "owner", b.config.Owner, "kind", kind, "start", start, "count", count)
	return start, nil
}

var _ types.OrderAllocator = (*Backend)(nil)
