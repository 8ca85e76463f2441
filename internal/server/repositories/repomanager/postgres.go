// Package repomanager opens the configured storage backend and wires the
// profile repository to it. The Postgres backend runs goose migrations
// from the embedded migrations package.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/driveaccess/internal/server/migrations"
	"github.com/dmitrijs2005/driveaccess/internal/server/repositories/profiles"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories and exposes
// a schema migration hook.
type PostgresRepositoryManager struct{}

// Profiles returns a profiles.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Profiles(db profiles.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
