package sqlite

// Schema DDL. Statements are idempotent so that Attach can run them against
// an existing database file.
const (
	createOrderManagers = `CREATE TABLE IF NOT EXISTS order_managers (
    owner TEXT PRIMARY KEY,
    tags_max_order INTEGER NOT NULL DEFAULT 0,
    tasks_max_order INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL
);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createOrderManagers,
}
