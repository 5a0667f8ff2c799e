package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	"job-tracker-backend/config"
	"job-tracker-backend/migrations"
	"job-tracker-backend/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

// migrate applies the embedded schema to DATABASE_URL.
//
//	migrate [-steps N] up|down|version
func main() {
	steps := flag.Int("steps", 0, "number of migrations to apply (0 = all) for up/down")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel)

	if cfg.DBUrl == "" {
		logger.Log.Error("DATABASE_URL is required for migrations")
		os.Exit(1)
	}

	if err := run(cfg.DBUrl, cmd, *steps); err != nil {
		logger.Log.Error("Migration failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func run(dsn, cmd string, steps int) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres driver: %w", err)
	}
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return err
	}

	switch cmd {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			return verr
		}
		logger.Log.Info("Schema version", "version", version, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q (want up, down or version)", cmd)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Log.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Log.Info("Migrations applied", "command", cmd)
	return nil
}
