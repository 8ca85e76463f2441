package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/driveaccess/internal/common"
	"github.com/dmitrijs2005/driveaccess/internal/server/models"
)

const profileColumns = `id, display_name, handle, phone, phone_shared_at, team, email, granted_at, created_at, updated_at`

type PostgresRepository struct {
	db  DBTX
	now func() time.Time
}

func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *PostgresRepository) UpsertIdentity(ctx context.Context, id int64, displayName, handle, phone string) error {
	query :=
		`INSERT INTO users (id, display_name, handle, phone, phone_shared_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   display_name = EXCLUDED.display_name,
		   handle = EXCLUDED.handle,
		   phone = EXCLUDED.phone,
		   phone_shared_at = EXCLUDED.phone_shared_at,
		   updated_at = EXCLUDED.updated_at
		 `

	_, err := r.db.ExecContext(ctx, query, id, displayName, handle, phone, r.now())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) SetTeam(ctx context.Context, id int64, team string) error {
	query :=
		`UPDATE users SET team = $2, updated_at = $3
		 WHERE id = $1
		 RETURNING id
		 `

	return r.updateOne(ctx, query, id, team, r.now())
}

func (r *PostgresRepository) SetEmail(ctx context.Context, id int64, email string) error {
	query :=
		`UPDATE users SET email = $2, granted_at = NULL, updated_at = $3
		 WHERE id = $1
		 RETURNING id
		 `

	return r.updateOne(ctx, query, id, email, r.now())
}

func (r *PostgresRepository) RecordGrant(ctx context.Context, id int64) error {
	query :=
		`UPDATE users SET granted_at = $2, updated_at = $2
		 WHERE id = $1
		 RETURNING id
		 `

	return r.updateOne(ctx, query, id, r.now())
}

// updateOne runs an UPDATE ... RETURNING id and maps a missing row to
// common.ErrorNotFound.
func (r *PostgresRepository) updateOne(ctx context.Context, query string, args ...any) error {
	var id int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users
		 WHERE id = $1
		 `

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) ListByTeam(ctx context.Context, team string) ([]string, error) {
	query :=
		`SELECT email FROM users
		 WHERE team = $1 AND email IS NOT NULL AND email <> ''
		 ORDER BY updated_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, team)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	emails := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		emails = append(emails, email)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return emails, nil
}

func (r *PostgresRepository) TeamSummary(ctx context.Context) ([]models.TeamStat, error) {
	query :=
		`SELECT team, COUNT(*) AS total, COUNT(granted_at) AS granted
		 FROM users
		 WHERE team IS NOT NULL AND team <> ''
		 GROUP BY team
		 ORDER BY team
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	stats := []models.TeamStat{}
	for rows.Next() {
		var s models.TeamStat
		if err := rows.Scan(&s.Team, &s.Total, &s.Granted); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	profiles := []*models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profiles, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p                  models.Profile
		phone, team, email sql.NullString
		phoneAt, grantedAt sql.NullTime
	)

	err := row.Scan(&p.ID, &p.DisplayName, &p.Handle, &phone, &phoneAt, &team, &email, &grantedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Phone = phone.String
	p.Team = team.String
	p.Email = email.String
	if phoneAt.Valid {
		t := phoneAt.Time
		p.PhoneSharedAt = &t
	}
	if grantedAt.Valid {
		t := grantedAt.Time
		p.GrantedAt = &t
	}

	return &p, nil
}
