package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Migrations are read from the filesystem at runtime so schema changes ship without a rebuild.

// Migrator applies the .sql files of a directory in name order, once each.
type Migrator struct {
	pool *pgxpool.Pool
	dir  string
}

func NewMigrator(pool *pgxpool.Pool, dir string) *Migrator {
	if dir == "" {
		dir = "migrations"
	}
	return &Migrator{
		pool: pool,
		dir:  dir,
	}
}

// RunMigrations executes all pending migrations and returns how many ran.
//
// Files whose name contains "reset" are never applied automatically.
func (m *Migrator) RunMigrations(ctx context.Context) (int, error) {
	log.Printf("[Migrator] Starting database migrations from %s", m.dir)

	if err := m.createMigrationsTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	pending, err := PendingMigrations(m.dir, applied)
	if err != nil {
		return 0, err
	}

	for _, filename := range pending {
		content, err := os.ReadFile(filepath.Join(m.dir, filename))
		if err != nil {
			return 0, fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		log.Printf("[Migrator] Running: %s", filename)
		tx, err := m.pool.Begin(ctx)
		if err != nil {
			return 0, err
		}
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			tx.Rollback(ctx)
			return 0, fmt.Errorf("failed to run migration %s: %w", filename, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (filename) VALUES ($1) ON CONFLICT (filename) DO NOTHING`,
			filename); err != nil {
			tx.Rollback(ctx)
			return 0, fmt.Errorf("failed to record migration %s: %w", filename, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return 0, err
		}
	}

	if len(pending) > 0 {
		log.Printf("[Migrator] Successfully ran %d new migration(s)", len(pending))
	} else {
		log.Printf("[Migrator] All migrations already applied - database is up to date")
	}
	return len(pending), nil
}

// PendingMigrations lists the .sql files in dir not yet in applied, sorted by name.
func PendingMigrations(dir string, applied map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var pending []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		if strings.Contains(name, "reset") {
			log.Printf("[Migrator] Skipping: %s (reset script)", name)
			continue
		}
		if applied[name] {
			continue
		}
		pending = append(pending, name)
	}
	sort.Strings(pending)
	return pending, nil
}

func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := m.pool.Exec(ctx, query)
	return err
}

func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := m.pool.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		applied[filename] = true
	}

	return applied, rows.Err()
}
