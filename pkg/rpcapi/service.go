package rpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully-qualified gRPC service name, used both in the
// ServiceDesc below and in each method's FullMethod string.
const ServiceName = "foldend.Foldend"

// FoldendServer is the service interface implemented by
// pkg/service/handler.Server. It mirrors the RPC surface of §6.
type FoldendServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	GetDirectoryStatus(context.Context, *GetDirectoryStatusRequest) (*GetDirectoryStatusResponse, error)
	StartHandler(context.Context, *StartHandlerRequest) (*StartHandlerResponse, error)
	StopHandler(context.Context, *StopHandlerRequest) (*StopHandlerResponse, error)
	ModifyHandler(context.Context, *ModifyHandlerRequest) (*ModifyHandlerResponse, error)
	TraceHandler(*TraceHandlerRequest, Foldend_TraceHandlerServer) error
}

// Foldend_TraceHandlerServer is the server-side streaming handle for
// TraceHandler, analogous to a protoc-gen-go-grpc server-streaming
// interface.
type Foldend_TraceHandlerServer interface {
	Send(*TraceMessage) error
	grpc.ServerStream
}

type foldendTraceHandlerServer struct {
	grpc.ServerStream
}

func (s *foldendTraceHandlerServer) Send(m *TraceMessage) error {
	return s.ServerStream.SendMsg(m)
}

func unaryHandler(methodName string, newRequest func() interface{}, invoke func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := newRequest()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return invoke(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + methodName}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return invoke(srv, ctx, req)
		}
		return interceptor(ctx, in, info, handler)
	}
}

var _Foldend_Register_Handler = unaryHandler("Register", func() interface{} { return new(RegisterRequest) },
	func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FoldendServer).Register(ctx, req.(*RegisterRequest))
	})

var _Foldend_GetDirectoryStatus_Handler = unaryHandler("GetDirectoryStatus", func() interface{} { return new(GetDirectoryStatusRequest) },
	func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FoldendServer).GetDirectoryStatus(ctx, req.(*GetDirectoryStatusRequest))
	})

var _Foldend_StartHandler_Handler = unaryHandler("StartHandler", func() interface{} { return new(StartHandlerRequest) },
	func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FoldendServer).StartHandler(ctx, req.(*StartHandlerRequest))
	})

var _Foldend_StopHandler_Handler = unaryHandler("StopHandler", func() interface{} { return new(StopHandlerRequest) },
	func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FoldendServer).StopHandler(ctx, req.(*StopHandlerRequest))
	})

var _Foldend_ModifyHandler_Handler = unaryHandler("ModifyHandler", func() interface{} { return new(ModifyHandlerRequest) },
	func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FoldendServer).ModifyHandler(ctx, req.(*ModifyHandlerRequest))
	})

func _Foldend_TraceHandler_Handler(srv interface{}, stream grpc.ServerStream) error {
	request := new(TraceHandlerRequest)
	if err := stream.RecvMsg(request); err != nil {
		return err
	}
	return srv.(FoldendServer).TraceHandler(request, &foldendTraceHandlerServer{stream})
}

// ServiceDesc is the hand-authored equivalent of a protoc-gen-go-grpc
// generated grpc.ServiceDesc: it binds FoldendServer's methods to the gRPC
// runtime without a .proto-derived source file.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FoldendServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: _Foldend_Register_Handler},
		{MethodName: "GetDirectoryStatus", Handler: _Foldend_GetDirectoryStatus_Handler},
		{MethodName: "StartHandler", Handler: _Foldend_StartHandler_Handler},
		{MethodName: "StopHandler", Handler: _Foldend_StopHandler_Handler},
		{MethodName: "ModifyHandler", Handler: _Foldend_ModifyHandler_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "TraceHandler", Handler: _Foldend_TraceHandler_Handler, ServerStreams: true},
	},
	Metadata: "foldend.rpcapi",
}

// RegisterFoldendServer registers srv as the implementation of
// ServiceDesc on s.
func RegisterFoldendServer(s grpc.ServiceRegistrar, srv FoldendServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// UnimplementedFoldendServer can be embedded in a FoldendServer
// implementation to satisfy the interface for methods it doesn't override,
// in the style of protoc-gen-go-grpc's forward-compatibility embedding.
type UnimplementedFoldendServer struct{}

func (UnimplementedFoldendServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}

func (UnimplementedFoldendServer) GetDirectoryStatus(context.Context, *GetDirectoryStatusRequest) (*GetDirectoryStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDirectoryStatus not implemented")
}

func (UnimplementedFoldendServer) StartHandler(context.Context, *StartHandlerRequest) (*StartHandlerResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method StartHandler not implemented")
}

func (UnimplementedFoldendServer) StopHandler(context.Context, *StopHandlerRequest) (*StopHandlerResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method StopHandler not implemented")
}

func (UnimplementedFoldendServer) ModifyHandler(context.Context, *ModifyHandlerRequest) (*ModifyHandlerResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ModifyHandler not implemented")
}

func (UnimplementedFoldendServer) TraceHandler(*TraceHandlerRequest, Foldend_TraceHandlerServer) error {
	return status.Error(codes.Unimplemented, "method TraceHandler not implemented")
}
