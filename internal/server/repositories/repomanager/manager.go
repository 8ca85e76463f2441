package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/driveaccess/internal/server/repositories/profiles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Profiles(db profiles.DBTX) profiles.Repository
}
