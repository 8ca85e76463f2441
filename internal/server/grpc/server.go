// Package grpc exposes the admin projections and bulk jobs over gRPC, next
// to the standard health and reflection services.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/driveaccess/internal/admin"
	"github.com/dmitrijs2005/driveaccess/internal/logging"
	"github.com/dmitrijs2005/driveaccess/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// AdminService is the admin.Service surface served over gRPC.
type AdminService interface {
	TeamSummary(ctx context.Context) ([]models.TeamStat, error)
	ListByTeam(ctx context.Context, team string) ([]string, error)
	ListAll(ctx context.Context) ([]*models.Profile, error)
	Export(ctx context.Context) (admin.ExportResult, error)
	Broadcast(ctx context.Context, text string) (admin.Report, error)
}

type Options struct {
	Address string
	// TokenKey verifies admin tokens, see auth.DeriveKey.
	TokenKey []byte
	AdminIDs []int64
	// Notice is broadcast when a Broadcast call carries no text.
	Notice string
}

type GRPCServer struct {
	address  string
	svc      AdminService
	logger   logging.Logger
	tokenKey []byte
	admins   map[int64]struct{}
	notice   string
	health   *health.Server
}

func NewGRPCServer(opts Options, svc AdminService, l logging.Logger) *GRPCServer {
	admins := make(map[int64]struct{}, len(opts.AdminIDs))
	for _, id := range opts.AdminIDs {
		admins[id] = struct{}{}
	}

	return &GRPCServer{
		address:  opts.Address,
		svc:      svc,
		logger:   l.With("module", "grpc_server"),
		tokenKey: opts.TokenKey,
		admins:   admins,
		notice:   opts.Notice,
		health:   health.NewServer(),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestLogInterceptor, s.accessTokenInterceptor))

	RegisterAdminServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	reflection.Register(srv)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	// storage is open by the time the server starts
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(AdminServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
