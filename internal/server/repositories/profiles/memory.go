package profiles

import (
	"context"
	"sort"
	"time"

	"github.com/dmitrijs2005/driveaccess/internal/common"
	"github.com/dmitrijs2005/driveaccess/internal/server/models"
	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryRepository keeps profiles in process memory. Each mutation runs
// inside xsync's per-key Compute, so writes to one id are serialized while
// writes to different ids proceed independently.
type MemoryRepository struct {
	profiles *xsync.MapOf[int64, models.Profile]
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		profiles: xsync.NewMapOf[int64, models.Profile](),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) UpsertIdentity(_ context.Context, id int64, displayName, handle, phone string) error {
	now := r.now()
	r.profiles.Compute(id, func(p models.Profile, loaded bool) (models.Profile, bool) {
		if !loaded {
			p = models.Profile{ID: id, CreatedAt: now}
		}
		p.DisplayName = displayName
		p.Handle = handle
		p.Phone = phone
		p.PhoneSharedAt = &now
		p.UpdatedAt = now
		return p, false
	})
	return nil
}

func (r *MemoryRepository) SetTeam(_ context.Context, id int64, team string) error {
	return r.update(id, func(p *models.Profile, now time.Time) {
		p.Team = team
	})
}

func (r *MemoryRepository) SetEmail(_ context.Context, id int64, email string) error {
	return r.update(id, func(p *models.Profile, now time.Time) {
		p.Email = email
		p.GrantedAt = nil
	})
}

func (r *MemoryRepository) RecordGrant(_ context.Context, id int64) error {
	return r.update(id, func(p *models.Profile, now time.Time) {
		p.GrantedAt = &now
	})
}

func (r *MemoryRepository) update(id int64, fn func(p *models.Profile, now time.Time)) error {
	now := r.now()
	found := false
	r.profiles.Compute(id, func(p models.Profile, loaded bool) (models.Profile, bool) {
		if !loaded {
			// deleting an absent key is a no-op
			return p, true
		}
		found = true
		fn(&p, now)
		p.UpdatedAt = now
		return p, false
	})
	if !found {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (*models.Profile, error) {
	p, ok := r.profiles.Load(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) ListByTeam(ctx context.Context, team string) ([]string, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	emails := []string{}
	for _, p := range all {
		if p.Team == team && p.Email != "" {
			emails = append(emails, p.Email)
		}
	}
	return emails, nil
}

func (r *MemoryRepository) TeamSummary(ctx context.Context) ([]models.TeamStat, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byTeam := map[string]*models.TeamStat{}
	for _, p := range all {
		if p.Team == "" {
			continue
		}
		s, ok := byTeam[p.Team]
		if !ok {
			s = &models.TeamStat{Team: p.Team}
			byTeam[p.Team] = s
		}
		s.Total++
		if p.Granted() {
			s.Granted++
		}
	}

	stats := make([]models.TeamStat, 0, len(byTeam))
	for _, s := range byTeam {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Team < stats[j].Team })

	return stats, nil
}

// ListAll returns a snapshot ordered by creation time, then id.
func (r *MemoryRepository) ListAll(_ context.Context) ([]*models.Profile, error) {
	profiles := []*models.Profile{}
	r.profiles.Range(func(_ int64, p models.Profile) bool {
		profiles = append(profiles, &p)
		return true
	})

	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].ID < profiles[j].ID
		}
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})

	return profiles, nil
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*PostgresRepository)(nil)
)
