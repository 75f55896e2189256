// Package store opens the configured credential store.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/learnpath-auth/config"
	"github.com/oksasatya/learnpath-auth/internal/domain/repository"
	"github.com/oksasatya/learnpath-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/learnpath-auth/internal/infrastructure/sqlite"
)

// Store is an opened user repository plus the handles needed to close it.
type Store struct {
	Users repository.UserRepository
	Pool  *pgxpool.Pool // nil for sqlite
	close func()
}

func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// Open connects to the store selected by STORE_DRIVER and brings its schema
// up to date.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		dsn := cfg.PostgresDSN()
		pool, err := postgres.NewPool(ctx, dsn, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife, cfg.DBConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.RunMigrations(dsn, cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return &Store{Users: postgres.NewUserRepository(pool), Pool: pool, close: pool.Close}, nil

	case config.StoreDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.WithField("path", cfg.SQLitePath).Info("using sqlite credential store")
		return &Store{Users: sqlite.NewUserRepository(db), close: func() { _ = db.Close() }}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
