package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The admin API speaks protobuf well-known types only, so no generated code
// is needed on either side.
const (
	AdminServiceName = "accessbot.admin.v1.AdminService"

	MethodTeamSummary = "/" + AdminServiceName + "/TeamSummary"
	MethodListByTeam  = "/" + AdminServiceName + "/ListByTeam"
	MethodListAll     = "/" + AdminServiceName + "/ListAll"
	MethodExport      = "/" + AdminServiceName + "/Export"
	MethodBroadcast   = "/" + AdminServiceName + "/Broadcast"
)

// AdminServer is implemented by GRPCServer.
type AdminServer interface {
	TeamSummary(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListByTeam(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListAll(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Export(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// Broadcast sends the given text, or the start notice when it is empty.
	Broadcast(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

func newEmpty() *emptypb.Empty           { return &emptypb.Empty{} }
func newString() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }

// unaryHandler adapts a typed method to grpc.MethodHandler, the way
// protoc-gen-go-grpc does for generated services.
func unaryHandler[Req proto.Message](fullMethod string, newReq func() Req, call func(AdminServer, context.Context, Req) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AdminServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AdminServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AdminServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "TeamSummary", Handler: unaryHandler(MethodTeamSummary, newEmpty, AdminServer.TeamSummary)},
		{MethodName: "ListByTeam", Handler: unaryHandler(MethodListByTeam, newString, AdminServer.ListByTeam)},
		{MethodName: "ListAll", Handler: unaryHandler(MethodListAll, newEmpty, AdminServer.ListAll)},
		{MethodName: "Export", Handler: unaryHandler(MethodExport, newEmpty, AdminServer.Export)},
		{MethodName: "Broadcast", Handler: unaryHandler(MethodBroadcast, newString, AdminServer.Broadcast)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accessbot/admin/v1/admin.proto",
}

func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&AdminServiceDesc, srv)
}

// AdminClient calls the admin API over any client connection.
type AdminClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminClient(cc grpc.ClientConnInterface) *AdminClient {
	return &AdminClient{cc: cc}
}

func (c *AdminClient) invoke(ctx context.Context, method string, in proto.Message, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdminClient) TeamSummary(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodTeamSummary, &emptypb.Empty{}, opts...)
}

func (c *AdminClient) ListByTeam(ctx context.Context, team string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListByTeam, wrapperspb.String(team), opts...)
}

func (c *AdminClient) ListAll(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListAll, &emptypb.Empty{}, opts...)
}

func (c *AdminClient) Export(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodExport, &emptypb.Empty{}, opts...)
}

func (c *AdminClient) Broadcast(ctx context.Context, text string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodBroadcast, wrapperspb.String(text), opts...)
}
