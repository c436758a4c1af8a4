package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Fully-qualified method names of accuracy.v1.AccuracyService
const (
	ServiceName = "accuracy.v1.AccuracyService"

	ComputeAccuracyFullMethod = "/" + ServiceName + "/ComputeAccuracy"
	GetRankingsFullMethod     = "/" + ServiceName + "/GetRankings"
	RefreshMetricsFullMethod  = "/" + ServiceName + "/RefreshMetrics"
)

// AccuracyServiceServer is the server API for accuracy.v1.AccuracyService.
// Requests and responses are google.protobuf.Struct documents.
type AccuracyServiceServer interface {
	ComputeAccuracy(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetRankings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RefreshMetrics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterAccuracyServiceServer registers srv on the gRPC server
func RegisterAccuracyServiceServer(s grpc.ServiceRegistrar, srv AccuracyServiceServer) {
	s.RegisterService(&AccuracyServiceDesc, srv)
}

// AccuracyServiceDesc describes accuracy.v1.AccuracyService
var AccuracyServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccuracyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ComputeAccuracy",
			Handler: unaryHandler(ComputeAccuracyFullMethod, func(srv AccuracyServiceServer) structHandler {
				return srv.ComputeAccuracy
			}),
		},
		{
			MethodName: "GetRankings",
			Handler: unaryHandler(GetRankingsFullMethod, func(srv AccuracyServiceServer) structHandler {
				return srv.GetRankings
			}),
		},
		{
			MethodName: "RefreshMetrics",
			Handler: unaryHandler(RefreshMetricsFullMethod, func(srv AccuracyServiceServer) structHandler {
				return srv.RefreshMetrics
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accuracy/v1/accuracy.proto",
}

type structHandler func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// unaryHandler decodes the Struct request and dispatches it through the
// server's interceptor chain
func unaryHandler(fullMethod string, method func(AccuracyServiceServer) structHandler) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		call := method(srv.(AccuracyServiceServer))
		if interceptor == nil {
			return call(ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AccuracyServiceClient is the client API for accuracy.v1.AccuracyService
type AccuracyServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAccuracyServiceClient creates a client on an established connection
func NewAccuracyServiceClient(cc grpc.ClientConnInterface) *AccuracyServiceClient {
	return &AccuracyServiceClient{cc: cc}
}

// ComputeAccuracy calls AccuracyService.ComputeAccuracy
func (c *AccuracyServiceClient) ComputeAccuracy(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ComputeAccuracyFullMethod, in, opts...)
}

// GetRankings calls AccuracyService.GetRankings
func (c *AccuracyServiceClient) GetRankings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetRankingsFullMethod, in, opts...)
}

// RefreshMetrics calls AccuracyService.RefreshMetrics
func (c *AccuracyServiceClient) RefreshMetrics(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, RefreshMetricsFullMethod, in, opts...)
}

func (c *AccuracyServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
