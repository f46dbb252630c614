package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "jobmate.tracker.v1.TrackerService"

// Method names.
const (
	MethodListApplications = "ListApplications"
	MethodGetDashboard     = "GetDashboard"
	MethodListReminders    = "ListReminders"
	MethodExportCSV        = "ExportCSV"
)

// TrackerServiceServer is the server API for TrackerService. Requests and
// responses are google.protobuf.Struct messages.
type TrackerServiceServer interface {
	ListApplications(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDashboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListReminders(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportCSV(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes TrackerService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TrackerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodListApplications, TrackerServiceServer.ListApplications),
		unary(MethodGetDashboard, TrackerServiceServer.GetDashboard),
		unary(MethodListReminders, TrackerServiceServer.ListReminders),
		unary(MethodExportCSV, TrackerServiceServer.ExportCSV),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobmate/tracker/v1/tracker.proto",
}

// RegisterTrackerServiceServer registers srv on s.
func RegisterTrackerServiceServer(s grpc.ServiceRegistrar, srv TrackerServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type unaryMethod func(TrackerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TrackerServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TrackerServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethod returns the "/service/method" path for a method name.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// ─── Client ──────────────────────────────────────────────────────────────────

// Client calls TrackerService over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes one unary method. A nil req sends an empty Struct.
func (c *Client) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
