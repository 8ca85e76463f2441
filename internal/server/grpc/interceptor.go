package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/driveaccess/internal/common"
	"github.com/dmitrijs2005/driveaccess/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const adminIDKey ctxKey = "adminID"

// AdminIDFromContext returns the admin id stored by the token interceptor.
func AdminIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(adminIDKey).(int64)
	return id, ok
}

func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 && values[0] != "" {
		return values[0]
	}
	if values := md.Get("authorization"); len(values) > 0 {
		if tok, found := strings.CutPrefix(values[0], "Bearer "); found {
			return strings.TrimSpace(tok)
		}
	}
	return ""
}

// accessTokenInterceptor guards every admin method. Health and reflection
// stay open.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !strings.HasPrefix(info.FullMethod, "/"+AdminServiceName+"/") {
		return handler(ctx, req)
	}

	if len(s.tokenKey) == 0 {
		return nil, status.Error(codes.Unavailable, "admin api disabled")
	}

	accessToken := tokenFromMetadata(ctx)
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	adminID, err := auth.GetAdminIDFromToken(accessToken, s.tokenKey)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	if _, ok := s.admins[adminID]; !ok {
		s.logger.Warn(ctx, "token for unknown admin", "admin_id", adminID, "method", info.FullMethod)
		return nil, status.Error(codes.PermissionDenied, "not an admin")
	}

	ctx = context.WithValue(ctx, adminIDKey, adminID)
	return handler(ctx, req)
}

func (s *GRPCServer) requestLogInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	started := time.Now()
	requestID := uuid.NewString()

	resp, err := handler(ctx, req)

	s.logger.Debug(ctx, "rpc",
		"request_id", requestID,
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(started),
	)
	return resp, err
}
