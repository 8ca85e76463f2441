package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/driveaccess/internal/admin"
	"github.com/dmitrijs2005/driveaccess/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type fakeAdmin struct {
	err       error
	exportErr error
	text      string
}

func (f *fakeAdmin) TeamSummary(context.Context) ([]models.TeamStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.TeamStat{{Team: "X", Total: 2, Granted: 1}, {Team: "Y", Total: 1, Granted: 1}}, nil
}

func (f *fakeAdmin) ListByTeam(_ context.Context, team string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"a@" + team + ".io"}, nil
}

func (f *fakeAdmin) ListAll(context.Context) ([]*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	return []*models.Profile{
		{ID: 1, DisplayName: "Ann", Team: "X", Email: "a@x.io", GrantedAt: &at},
		{ID: 2, DisplayName: "Bo"},
	}, nil
}

func (f *fakeAdmin) Export(context.Context) (admin.ExportResult, error) {
	if f.exportErr != nil {
		return admin.ExportResult{}, f.exportErr
	}
	return admin.ExportResult{Key: "exports/users/k.csv", Count: 2}, nil
}

func (f *fakeAdmin) Broadcast(_ context.Context, text string) (admin.Report, error) {
	f.text = text
	if f.err != nil {
		return admin.Report{}, f.err
	}
	return admin.Report{Total: 3, Sent: 2}, nil
}

func TestHandlers_Success(t *testing.T) {
	ctx := context.Background()
	fa := &fakeAdmin{}
	s := newTestServer(t, fa)

	sum, err := s.TeamSummary(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	teams := sum.AsMap()["teams"].([]any)
	require.Len(t, teams, 2)
	assert.Equal(t, map[string]any{"team": "X", "total": float64(2), "granted": float64(1)}, teams[0])

	byTeam, err := s.ListByTeam(ctx, wrapperspb.String("X"))
	require.NoError(t, err)
	assert.Equal(t, []any{"a@X.io"}, byTeam.AsMap()["emails"])

	all, err := s.ListAll(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	users := all.AsMap()["users"].([]any)
	require.Len(t, users, 2)
	first := users[0].(map[string]any)
	assert.Equal(t, "2025-05-01T12:00:00Z", first["granted_at"])
	assert.Equal(t, true, first["granted"])
	_, hasGrant := users[1].(map[string]any)["granted_at"]
	assert.False(t, hasGrant)

	exp, err := s.Export(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "exports/users/k.csv", exp.AsMap()["key"])

	rep, err := s.Broadcast(ctx, &wrapperspb.StringValue{})
	require.NoError(t, err)
	assert.Equal(t, "press /start", fa.text)
	assert.Equal(t, float64(2), rep.AsMap()["sent"])

	_, err = s.Broadcast(ctx, wrapperspb.String("maintenance tonight"))
	require.NoError(t, err)
	assert.Equal(t, "maintenance tonight", fa.text)
}

func TestHandlers_Errors(t *testing.T) {
	ctx := context.Background()

	s := newTestServer(t, &fakeAdmin{err: errors.New("db down")})
	_, err := s.TeamSummary(ctx, &emptypb.Empty{})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, "internal error", status.Convert(err).Message())

	_, err = s.ListAll(ctx, &emptypb.Empty{})
	assert.Equal(t, codes.Internal, status.Code(err))

	_, err = s.ListByTeam(ctx, wrapperspb.String(""))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.Broadcast(ctx, wrapperspb.String("x"))
	assert.Equal(t, codes.Internal, status.Code(err))

	s = newTestServer(t, &fakeAdmin{exportErr: admin.ErrExportDisabled})
	_, err = s.Export(ctx, &emptypb.Empty{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	s = newTestServer(t, &fakeAdmin{exportErr: errors.New("s3 put error")})
	_, err = s.Export(ctx, &emptypb.Empty{})
	assert.Equal(t, codes.Internal, status.Code(err))
}
