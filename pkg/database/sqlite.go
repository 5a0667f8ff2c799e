package database

import (
	"fmt"

	"job-tracker-backend/pkg/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewSQLiteConnection opens a pure-Go sqlite database through gorm.
// Use ":memory:" for a throwaway database.
func NewSQLiteConnection(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	logger.Log.Info("Database connection established", "driver", "sqlite", "path", path)
	return db, nil
}

// CloseGorm closes the connection pool behind a gorm handle.
func CloseGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
