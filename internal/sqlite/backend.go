// Package sqlite implements the order allocator on SQLite. Each owner has
// one counter row holding the next free order per kind; an allocation is a
// transactional read-increment-write on that row.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

// DBFile is the database file name inside the data directory.
const DBFile = "orders.db"

// Backend allocates orders for the configured owner. It is safe for
// concurrent use.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *slog.Logger
}

// NewBackend creates a new SQLite backend instance. A nil logger discards
// output. The backend is not attached; call Attach with a Config to
// initialize.
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{logger: logger}
}

// Attach opens (creating if needed) the database in config.DataDir and
// applies the schema. Existing counters are kept.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, DBFile)
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	// One connection serializes transactions within the process; the
	// immediate lock and busy timeout serialize them across processes.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	b.logger.Debug("order backend attached", "path", dbPath, "owner", config.Owner)
	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.logger.Debug("order backend detached")
	return nil
}

// Owner returns the owner whose counters this backend allocates from.
func (b *Backend) Owner() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.Owner
}
