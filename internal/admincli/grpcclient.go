package admincli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/driveaccess/internal/common"
	gs "github.com/dmitrijs2005/driveaccess/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// GRPCClient is an admin API client that attaches the access token to every
// call.
type GRPCClient struct {
	*gs.AdminClient
	conn        *grpc.ClientConn
	accessToken string
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	ctx = withAccessToken(ctx, c.accessToken)
	return mapError(invoker(ctx, method, req, reply, cc, opts...))
}

func NewGRPCClient(endpointURL, accessToken string) (*GRPCClient, error) {
	c := &GRPCClient{accessToken: accessToken}

	conn, err := grpc.NewClient(endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	)
	if err != nil {
		return nil, err
	}

	c.conn = conn
	c.AdminClient = gs.NewAdminClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", common.ErrorUnauthorized, st.Message())
	default:
		return err
	}
}
