// Package database opens and maintains the SQLite database behind the
// collection store.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schemas/*.sql
var schemaFS embed.FS

// Profile selects a durability/speed trade-off for the connection.
type Profile string

const (
	// ProfileStandard favors durability; used for the bank database.
	ProfileStandard Profile = "standard"
	// ProfileCache favors speed for data that can be rebuilt.
	ProfileCache Profile = "cache"
)

// pragmas applied to every connection regardless of profile.
var basePragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"wal_autocheckpoint(1000)",
	"cache_size(-64000)", // 64MB, negative means KB
}

var profilePragmas = map[Profile][]string{
	ProfileStandard: {
		"synchronous(NORMAL)",
		"auto_vacuum(INCREMENTAL)",
		"temp_store(MEMORY)",
	},
	ProfileCache: {
		"synchronous(OFF)",
		"auto_vacuum(FULL)",
		"temp_store(MEMORY)",
	},
}

// DB wraps a SQLite connection together with its file path and profile.
type DB struct {
	conn    *sql.DB
	path    string
	profile Profile
	name    string
}

// Config holds the options for opening a database.
type Config struct {
	Path    string
	Profile Profile
	Name    string // short name used in log and error messages
}

// New opens the database, applies the profile pragmas and verifies the
// connection with a ping.
func New(cfg Config) (*DB, error) {
	if cfg.Profile == "" {
		cfg.Profile = ProfileStandard
	}

	// file: URIs (in-memory databases in tests) bypass path handling
	if !strings.HasPrefix(cfg.Path, "file:") {
		abs, err := filepath.Abs(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path for %s: %w", cfg.Name, err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", cfg.Name, err)
		}
		cfg.Path = abs
	}

	conn, err := sql.Open("sqlite", connString(cfg.Path, cfg.Profile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Name, err)
	}

	tunePool(conn, cfg.Profile)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Name, err)
	}

	return &DB{conn: conn, path: cfg.Path, profile: cfg.Profile, name: cfg.Name}, nil
}

func connString(path string, profile Profile) string {
	var b strings.Builder
	b.WriteString(path)
	sep := "?"
	for _, p := range append(append([]string{}, basePragmas...), profilePragmas[profile]...) {
		b.WriteString(sep + "_pragma=" + p)
		sep = "&"
	}
	return b.String()
}

func tunePool(conn *sql.DB, profile Profile) {
	open, idle := 25, 5
	if profile == ProfileCache {
		open, idle = 10, 2
	}
	conn.SetMaxOpenConns(open)
	conn.SetMaxIdleConns(idle)
	conn.SetConnMaxLifetime(24 * time.Hour)
	conn.SetConnMaxIdleTime(30 * time.Minute)
}

// Migrate applies the embedded schema for this database. Running it
// against an already-migrated file is a no-op: the schema uses
// CREATE TABLE IF NOT EXISTS throughout.
func (db *DB) Migrate() error {
	content, err := schemaFS.ReadFile("schemas/" + db.name + "_schema.sql")
	if err != nil {
		// No schema shipped for this database name
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration for %s: %w", db.name, err)
	}

	if _, err := tx.Exec(string(content)); err != nil {
		_ = tx.Rollback()
		if strings.Contains(err.Error(), "already exists") {
			return nil
		}
		return fmt.Errorf("failed to apply schema for %s: %w", db.name, err)
	}

	return tx.Commit()
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn exposes the raw *sql.DB for the storage layer.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// QuickCheck pings the database. Used by the health endpoint.
func (db *DB) QuickCheck(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// HealthCheck pings the database and runs a full integrity check.
func (db *DB) HealthCheck(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed for %s: %w", db.name, err)
	}

	var result string
	if err := db.conn.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed for %s: %w", db.name, err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check reported %q for %s", result, db.name)
	}
	return nil
}

// Stats describes the on-disk footprint of the database.
type Stats struct {
	SizeBytes    int64 `json:"sizeBytes"`
	WALSizeBytes int64 `json:"walSizeBytes"`
	PageCount    int64 `json:"pageCount"`
	PageSize     int64 `json:"pageSize"`
}

// GetStats reads file sizes and page counters for diagnostics.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	if info, err := os.Stat(db.path); err == nil {
		stats.SizeBytes = info.Size()
	}
	if info, err := os.Stat(db.path + "-wal"); err == nil {
		stats.WALSizeBytes = info.Size()
	}

	if err := db.conn.QueryRow("PRAGMA page_count").Scan(&stats.PageCount); err != nil {
		return nil, fmt.Errorf("failed to read page count for %s: %w", db.name, err)
	}
	if err := db.conn.QueryRow("PRAGMA page_size").Scan(&stats.PageSize); err != nil {
		return nil, fmt.Errorf("failed to read page size for %s: %w", db.name, err)
	}

	return stats, nil
}
