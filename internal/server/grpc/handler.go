package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/driveaccess/internal/admin"
	"github.com/dmitrijs2005/driveaccess/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) internal(ctx context.Context, method string, err error) error {
	s.logger.Error(ctx, "admin call failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode error")
	}
	return st, nil
}

func (s *GRPCServer) TeamSummary(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	stats, err := s.svc.TeamSummary(ctx)
	if err != nil {
		return nil, s.internal(ctx, "TeamSummary", err)
	}

	teams := make([]any, 0, len(stats))
	for _, st := range stats {
		teams = append(teams, map[string]any{
			"team":    st.Team,
			"total":   st.Total,
			"granted": st.Granted,
		})
	}
	return toStruct(map[string]any{"teams": teams})
}

func (s *GRPCServer) ListByTeam(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	team := req.GetValue()
	if team == "" {
		return nil, status.Error(codes.InvalidArgument, "team is required")
	}

	emails, err := s.svc.ListByTeam(ctx, team)
	if err != nil {
		return nil, s.internal(ctx, "ListByTeam", err)
	}

	list := make([]any, 0, len(emails))
	for _, e := range emails {
		list = append(list, e)
	}
	return toStruct(map[string]any{"team": team, "emails": list})
}

func (s *GRPCServer) ListAll(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	all, err := s.svc.ListAll(ctx)
	if err != nil {
		return nil, s.internal(ctx, "ListAll", err)
	}

	users := make([]any, 0, len(all))
	for _, p := range all {
		users = append(users, profileFields(p))
	}
	return toStruct(map[string]any{"users": users})
}

func profileFields(p *models.Profile) map[string]any {
	m := map[string]any{
		"id":           p.ID,
		"display_name": p.DisplayName,
		"handle":       p.Handle,
		"phone":        p.Phone,
		"team":         p.Team,
		"email":        p.Email,
		"granted":      p.Granted(),
	}
	if p.GrantedAt != nil {
		m["granted_at"] = p.GrantedAt.UTC().Format(time.RFC3339)
	}
	return m
}

func (s *GRPCServer) Export(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	res, err := s.svc.Export(ctx)
	if errors.Is(err, admin.ErrExportDisabled) {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	if err != nil {
		return nil, s.internal(ctx, "Export", err)
	}

	return toStruct(map[string]any{"key": res.Key, "count": res.Count})
}

func (s *GRPCServer) Broadcast(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	text := req.GetValue()
	if text == "" {
		text = s.notice
	}
	if text == "" {
		return nil, status.Error(codes.InvalidArgument, "text is required")
	}

	rep, err := s.svc.Broadcast(ctx, text)
	if err != nil {
		return nil, s.internal(ctx, "Broadcast", err)
	}

	adminID, _ := AdminIDFromContext(ctx)
	s.logger.Info(ctx, "broadcast requested", "admin_id", adminID, "sent", rep.Sent, "total", rep.Total)
	return toStruct(map[string]any{"sent": rep.Sent, "total": rep.Total})
}
