package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// amcTables lists the AMC tables children first.
var amcTables = []string{
	"amc_breakdown_services",
	"amc_branches",
	"amc_customers",
}

// Reset deletes every AMC customer, branch and breakdown record in one transaction.
// The schema and schema_migrations are left in place.
func Reset(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range amcTables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
		log.Printf("[Reset] Cleared %s", table)
	}

	return tx.Commit(ctx)
}
