package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/flight-transfer-admin/internal/config"
	"github.com/iliyamo/flight-transfer-admin/internal/database"
	"github.com/iliyamo/flight-transfer-admin/internal/repository"
)

// openStore connects the driver selected by cfg.Driver.  When migrate is
// set the transfers table is created if missing.  The returned func closes
// the underlying connection.
func openStore(ctx context.Context, cfg config.StoreConfig, migrate bool, logger *zap.Logger) (repository.TransferStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMySQL, config.DriverSQLite:
		var (
			db      *sql.DB
			dialect database.Dialect
			err     error
		)
		if cfg.Driver == config.DriverMySQL {
			db, err = database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
			dialect = database.MySQL
		} else {
			db, err = database.OpenSQLite(cfg.SQLitePath)
			dialect = database.SQLite
		}
		if err != nil {
			return nil, noop, fmt.Errorf("connect %s: %w", cfg.Driver, err)
		}
		if migrate {
			if err := database.EnsureSchema(ctx, db, dialect); err != nil {
				_ = db.Close()
				return nil, noop, err
			}
		}
		logger.Info("transfer store ready", zap.String("driver", cfg.Driver))
		return repository.NewTransferRepo(db), db.Close, nil

	case config.DriverPostgres:
		gdb, err := database.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, noop, err
		}
		repo := repository.NewGormTransferRepo(gdb)
		if migrate {
			if err := repo.AutoMigrate(ctx); err != nil {
				_ = sqlDB.Close()
				return nil, noop, fmt.Errorf("auto migrate: %w", err)
			}
		}
		logger.Info("transfer store ready", zap.String("driver", cfg.Driver))
		return repo, sqlDB.Close, nil

	case config.DriverSupabase:
		// The hosted table is managed in the project dashboard; nothing to
		// migrate from here.
		repo := repository.NewRestTransferRepo(repository.RestConfig{
			BaseURL: cfg.SupabaseURL,
			APIKey:  cfg.SupabaseKey,
			Timeout: cfg.Timeout,
		})
		logger.Info("transfer store ready", zap.String("driver", cfg.Driver), zap.String("url", cfg.SupabaseURL))
		return repo, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
