package database

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"example.com/mams/config"
	"example.com/mams/internal/models"
)

// Connect opens the write and read-only database connections, runs
// migrations against the write side and configures connection pools.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, *gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to write database")
	}

	readOnlyDB, err := gorm.Open(postgres.Open(cfg.ReadOnlyDSN), &gorm.Config{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to read-only database")
	}

	// Auto-migrate only the write database
	if err := models.SetupModels(db); err != nil {
		return nil, nil, errors.Wrap(err, "failed to run migrations")
	}

	if err := configurePool(db, cfg.MaxIdleConns, cfg.MaxOpenConns, cfg.ConnMaxLifetime); err != nil {
		return nil, nil, errors.Wrap(err, "failed to configure write pool")
	}
	// Higher limits for the read side, it serves the dashboard fan-out
	if err := configurePool(readOnlyDB, cfg.MaxIdleConns*2, cfg.MaxOpenConns*2, cfg.ConnMaxLifetime); err != nil {
		return nil, nil, errors.Wrap(err, "failed to configure read-only pool")
	}

	return db, readOnlyDB, nil
}

func configurePool(db *gorm.DB, maxIdle, maxOpen int, lifetime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if maxIdle <= 0 {
		maxIdle = 10
	}
	if maxOpen <= 0 {
		maxOpen = 50
	}
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(lifetime)
	return nil
}
