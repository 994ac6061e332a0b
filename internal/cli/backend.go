package cli

import (
	"context"
	"fmt"

	"github.com/p28/portal/internal/config"
	"github.com/p28/portal/internal/database"
	"github.com/p28/portal/internal/server"
	"github.com/p28/portal/internal/store"
	"github.com/p28/portal/internal/store/postgres"
)

// openStores connects to Postgres when database_url is set, otherwise to
// the SQLite file at db_path. SQLite is migrated on open; the Postgres
// schema is applied by the migrate command.
func openStores(ctx context.Context, cfg config.Config) (server.Stores, func(), error) {
	if cfg.DatabaseURL != "" {
		if !cfg.UsesPostgres() {
			return server.Stores{}, nil, fmt.Errorf("database_url must be a postgres:// url")
		}
		pool, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return server.Stores{}, nil, err
		}
		stores := server.Stores{
			Entitlements: postgres.NewEntitlementStore(pool),
			Tiers:        postgres.NewTierStore(pool),
		}
		return stores, pool.Close, nil
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return server.Stores{}, nil, err
	}
	stores := server.Stores{
		Entitlements: store.NewEntitlementStore(db),
		Tiers:        store.NewTierStore(db),
	}
	return stores, func() { db.Close() }, nil
}
