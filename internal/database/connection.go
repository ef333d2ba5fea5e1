package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "postgres"
)

// Connect opens the database for driver ("sqlite3" or "postgres") and
// initializes the schema
func Connect(driver, dsn string) (*sqlx.DB, error) {
	if driver == driverSQLite {
		if err := ensureDataDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == driverSQLite {
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ensureDataDir creates the parent directory of a file DSN
func ensureDataDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || strings.HasPrefix(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// initializeSchema creates the moods table if it doesn't exist
func initializeSchema(db *sqlx.DB) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == driverPostgres {
		idColumn = "id SERIAL PRIMARY KEY"
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS moods (
			` + idColumn + `,
			mood INTEGER NOT NULL CHECK (mood IN (0, 1)),
			day TEXT NOT NULL UNIQUE,
			backfilled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create moods table: %w", err)
	}
	return addBackfilledColumn(db)
}

// addBackfilledColumn upgrades moods tables created before backfills were flagged
func addBackfilledColumn(db *sqlx.DB) error {
	if db.DriverName() == driverPostgres {
		_, err := db.Exec("ALTER TABLE moods ADD COLUMN IF NOT EXISTS backfilled BOOLEAN NOT NULL DEFAULT FALSE")
		if err != nil {
			return fmt.Errorf("failed to add backfilled column: %w", err)
		}
		return nil
	}

	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM pragma_table_info('moods') WHERE name = 'backfilled'")
	if err != nil {
		return fmt.Errorf("failed to inspect moods table: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := db.Exec("ALTER TABLE moods ADD COLUMN backfilled BOOLEAN NOT NULL DEFAULT FALSE"); err != nil {
		return fmt.Errorf("failed to add backfilled column: %w", err)
	}
	return nil
}
