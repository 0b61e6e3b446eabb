package database

import (
	"context"
	"fmt"

	"amc-backend/internal/config"
	"amc-backend/internal/db"
	"amc-backend/internal/health"
	"amc-backend/internal/repositories"
	"amc-backend/internal/services"

	log "github.com/sirupsen/logrus"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Stores is the configured storage backend seen through the service interfaces.
type Stores struct {
	Driver     string
	Customers  services.CustomerStore
	Branches   services.BranchStore
	Breakdowns services.BreakdownStore
	Pinger     health.Pinger
	Close      func()
}

// Open builds the stores for cfg.Storage.Driver. For Postgres it connects and, when
// migrate is set, applies pending migrations first.
func Open(ctx context.Context, cfg *config.Config, migrate bool) (*Stores, error) {
	switch cfg.Storage.Driver {
	case DriverMemory, "":
		store := repositories.NewMemoryStore()
		log.Printf("[Storage] Using in-memory store")
		return &Stores{
			Driver:     DriverMemory,
			Customers:  store.Customers(),
			Branches:   store.Branches(),
			Breakdowns: store.Breakdowns(),
			Pinger:     store,
			Close:      func() {},
		}, nil

	case DriverPostgres:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Printf("[Storage] Connected to Postgres %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

		if migrate {
			applied, err := NewMigrator(pool, cfg.Database.MigrationsDir).RunMigrations(ctx)
			if err != nil {
				pool.Close()
				return nil, err
			}
			log.Printf("[Storage] Applied %d migrations", applied)
		}
		return &Stores{
			Driver:     DriverPostgres,
			Customers:  repositories.NewCustomerRepository(pool),
			Branches:   repositories.NewBranchRepository(pool),
			Breakdowns: repositories.NewBreakdownServiceRepository(pool),
			Pinger:     pool,
			Close:      pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
