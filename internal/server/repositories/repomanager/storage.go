package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/driveaccess/internal/logging"
	"github.com/dmitrijs2005/driveaccess/internal/server/repositories/profiles"
	"github.com/sethvargo/go-retry"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Storage is an opened backend. db is nil for the memory driver.
type Storage struct {
	Profiles profiles.Repository
	db       *sql.DB
}

var (
	sqlOpen = sql.Open

	newPingBackoff = func() retry.Backoff {
		return retry.WithMaxRetries(4, retry.NewExponential(500*time.Millisecond))
	}
)

// Open connects to the backend named by driver. For Postgres it waits for
// the database to answer a ping (bounded retries) and applies migrations.
func Open(ctx context.Context, driver, dsn string, logger logging.Logger) (*Storage, error) {
	switch driver {
	case DriverMemory, "":
		logger.Info(ctx, "using in-memory profile store")
		return &Storage{Profiles: profiles.NewMemoryRepository()}, nil
	case DriverPostgres:
		return openPostgres(ctx, dsn, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func openPostgres(ctx context.Context, dsn string, logger logging.Logger) (*Storage, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	attempt := 0
	err = retry.Do(ctx, newPingBackoff(), func(ctx context.Context) error {
		attempt++
		if err := db.PingContext(ctx); err != nil {
			logger.Warn(ctx, "database not ready", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Storage{Profiles: m.Profiles(db), db: db}, nil
}

// Ping reports whether the backend is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
