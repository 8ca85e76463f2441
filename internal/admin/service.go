// Package admin holds the operator-facing projections over the profile store
// together with the bulk jobs built on them: broadcast and CSV export.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/driveaccess/internal/logging"
	"github.com/dmitrijs2005/driveaccess/internal/server/models"
)

var ErrExportDisabled = errors.New("export is not configured")

// Reader is the read side of the profile repository.
type Reader interface {
	ListByTeam(ctx context.Context, team string) ([]string, error)
	TeamSummary(ctx context.Context) ([]models.TeamStat, error)
	ListAll(ctx context.Context) ([]*models.Profile, error)
}

type Exporter interface {
	Export(ctx context.Context, profiles []*models.Profile) (string, error)
}

// ExportResult describes an uploaded export.
type ExportResult struct {
	Key   string
	Count int
}

type Service struct {
	reader      Reader
	exporter    Exporter
	broadcaster *Broadcaster
	logger      logging.Logger
}

// NewService builds the admin service. exporter may be nil, in which case
// Export returns ErrExportDisabled.
func NewService(reader Reader, exporter Exporter, broadcaster *Broadcaster, logger logging.Logger) *Service {
	return &Service{
		reader:      reader,
		exporter:    exporter,
		broadcaster: broadcaster,
		logger:      logger.With("module", "admin"),
	}
}

func (s *Service) TeamSummary(ctx context.Context) ([]models.TeamStat, error) {
	return s.reader.TeamSummary(ctx)
}

func (s *Service) ListByTeam(ctx context.Context, team string) ([]string, error) {
	return s.reader.ListByTeam(ctx, team)
}

func (s *Service) ListAll(ctx context.Context) ([]*models.Profile, error) {
	return s.reader.ListAll(ctx)
}

func (s *Service) ExportEnabled() bool {
	return s.exporter != nil
}

// Export writes every profile to the configured object store.
func (s *Service) Export(ctx context.Context) (ExportResult, error) {
	if s.exporter == nil {
		return ExportResult{}, ErrExportDisabled
	}

	all, err := s.reader.ListAll(ctx)
	if err != nil {
		return ExportResult{}, err
	}

	key, err := s.exporter.Export(ctx, all)
	if err != nil {
		return ExportResult{}, fmt.Errorf("export error: %w", err)
	}

	s.logger.Info(ctx, "profiles exported", "key", key, "count", len(all))
	return ExportResult{Key: key, Count: len(all)}, nil
}

// Broadcast sends text to every known user.
func (s *Service) Broadcast(ctx context.Context, text string) (Report, error) {
	all, err := s.reader.ListAll(ctx)
	if err != nil {
		return Report{}, err
	}

	ids := make([]int64, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}

	return s.broadcaster.Send(ctx, ids, text)
}
