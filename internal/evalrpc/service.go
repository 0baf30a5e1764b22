// Package evalrpc exposes automaton evaluation over gRPC. Requests and
// responses use the protobuf well-known wrapper types, so no generated code
// is required: the input word travels as BytesValue and the verdict comes
// back as BoolValue.
package evalrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "dfarun.v1.Evaluator"

	evaluateMethod = "/" + ServiceName + "/Evaluate"
)

// EvaluatorServer is the server API for the Evaluator service.
type EvaluatorServer interface {
	Evaluate(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error)
}

// RegisterEvaluatorServer attaches srv to a gRPC server.
func RegisterEvaluatorServer(s grpc.ServiceRegistrar, srv EvaluatorServer) {
	s.RegisterService(&evaluatorServiceDesc, srv)
}

func evaluateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EvaluatorServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: evaluateMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EvaluatorServer).Evaluate(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

var evaluatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EvaluatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Evaluate",
			Handler:    evaluateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dfarun/v1/evaluator.proto",
}
