// Package profiles is the durable store of user profiles: identity, team
// assignment and grant status, keyed by the chat user id.
package profiles

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/driveaccess/internal/server/models"
)

// Repository is the profile store contract. Every mutation is durable when
// the call returns. Mutations other than UpsertIdentity return
// common.ErrorNotFound when the user has no record yet.
type Repository interface {
	// UpsertIdentity creates the record or overwrites its identity fields.
	UpsertIdentity(ctx context.Context, id int64, displayName, handle, phone string) error
	SetTeam(ctx context.Context, id int64, team string) error
	// SetEmail replaces the email and clears granted_at in one write.
	SetEmail(ctx context.Context, id int64, email string) error
	// RecordGrant stamps granted_at with the current time. Safe to repeat.
	RecordGrant(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Profile, error)
	// ListByTeam returns the non-empty emails registered for team.
	ListByTeam(ctx context.Context, team string) ([]string, error)
	TeamSummary(ctx context.Context) ([]models.TeamStat, error)
	ListAll(ctx context.Context) ([]*models.Profile, error)
}

// DBTX is the subset of database/sql used by the Postgres repository.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
