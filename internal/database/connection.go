package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the database connection shared by the repositories.
type DB struct {
	*sqlx.DB
}

// Connect opens the database configured through the environment.
// DB_TYPE selects the driver: "sqlite" (default) stores a file under
// DATA_DIR, "postgres" connects to DATABASE_URL.
func Connect() (*DB, error) {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	switch dbType {
	case "sqlite":
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %v", err)
		}
		return Open("sqlite3", filepath.Join(dataDir, "vocabsync.db"))
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		return Open("postgres", dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE: %s", dbType)
	}
}

// Open connects with an explicit driver and data source and initializes
// the schema. Tests use it directly with a temp sqlite file.
func Open(driver, dataSource string) (*DB, error) {
	db, err := sqlx.Connect(driver, dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	d := &DB{DB: db}
	if err := d.initializeSchema(); err != nil {
		return nil, err
	}
	return d, nil
}

// initializeSchema creates necessary tables if they don't exist. The DDL
// sticks to types both SQLite and PostgreSQL accept.
func (d *DB) initializeSchema() error {
	_, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS words (
			id TEXT PRIMARY KEY,
			word TEXT NOT NULL,
			normalized TEXT NOT NULL,
			definitions TEXT NOT NULL DEFAULT '[]',
			phonetic TEXT NOT NULL DEFAULT '',
			audio_url TEXT NOT NULL DEFAULT '',
			source_text TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL DEFAULT '',
			source_title TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			favorite BOOLEAN NOT NULL DEFAULT FALSE,
			note TEXT NOT NULL DEFAULT '',
			view_count INTEGER NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL,
			deleted_at BIGINT NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create words table: %v", err)
	}

	_, err = d.Exec(`
		CREATE TABLE IF NOT EXISTS review_states (
			word_id TEXT PRIMARY KEY,
			next_review_at BIGINT NOT NULL,
			interval_days INTEGER NOT NULL DEFAULT 1,
			ease_factor REAL NOT NULL DEFAULT 2.5,
			repetitions INTEGER NOT NULL DEFAULT 0,
			history TEXT NOT NULL DEFAULT '[]'
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_states table: %v", err)
	}

	_, err = d.Exec(`
		CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create sync_state table: %v", err)
	}

	_, err = d.Exec(`CREATE INDEX IF NOT EXISTS idx_words_updated_at ON words(updated_at)`)
	if err != nil {
		return fmt.Errorf("failed to create words index: %v", err)
	}

	return nil
}
