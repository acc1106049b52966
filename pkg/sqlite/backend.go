// Package sqlite provides the public API for the SQLite order allocator.
// This package exposes the factory function while keeping implementation
// details internal.
package sqlite

import (
	"log/slog"

	"github.com/mesh-intelligence/samwise/internal/sqlite"
	"github.com/mesh-intelligence/samwise/pkg/types"
)

// NewBackend creates a new SQLite order allocator. A nil logger discards
// output. The backend is not attached; call Attach with a Config to
// initialize.
//
// Example:
//
//	orders := sqlite.NewBackend(nil)
//	err := orders.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "/path/to/data",
//	    Owner:   "user@example.com",
//	})
//	defer orders.Detach()
//	start, err := orders.AllocateOrder(ctx, types.OrderTasks, 1)
func NewBackend(logger *slog.Logger) types.OrderStore {
	return sqlite.NewBackend(logger)
}
