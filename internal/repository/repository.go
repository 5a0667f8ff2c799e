// Package repository selects the applications gateway for the configured store.
package repository

import (
	"context"
	"fmt"

	"job-tracker-backend/config"
	"job-tracker-backend/internal/domain"
	"job-tracker-backend/internal/repository/postgres"
	"job-tracker-backend/internal/repository/sqlite"
	supabaserepo "job-tracker-backend/internal/repository/supabase"
	"job-tracker-backend/pkg/database"
	"job-tracker-backend/pkg/supabase"
)

// Open connects to the store named by cfg.StoreDriver. The returned func
// releases the connection and is never nil.
func Open(ctx context.Context, cfg *config.Config) (domain.ApplicationGateway, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreSupabase:
		client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
		return supabaserepo.NewApplicationRepository(supabase.NewRest(client)), func() {}, nil

	case config.StorePostgres:
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.NewApplicationRepository(pool), pool.Close, nil

	case config.StoreSQLite:
		db, err := database.NewSQLiteConnection(cfg.SQLitePath)
		if err != nil {
			return nil, func() {}, err
		}
		if err := sqlite.Migrate(db); err != nil {
			_ = database.CloseGorm(db)
			return nil, func() {}, fmt.Errorf("migrate sqlite: %w", err)
		}
		return sqlite.NewApplicationRepository(db), func() { _ = database.CloseGorm(db) }, nil
	}
	return nil, func() {}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
