// Package grpcgov exposes read-only ledger queries over gRPC.
//
// The service is hand-rolled on protobuf well-known types (wrappers, Struct,
// Empty) so the repo carries no protoc/codegen toolchain. Amounts cross the
// wire as decimal strings; they do not fit the 64-bit wrapper types.
package grpcgov

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "xdao.govtoken.v1.LedgerQuery"

// LedgerQueryServer is the server API for the LedgerQuery gRPC service.
//
// Single-argument queries take a StringValue holding a 0x address. Queries
// with more than one argument take a Struct; field names are documented on
// the server methods.
type LedgerQueryServer interface {
	TotalSupply(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	Height(context.Context, *emptypb.Empty) (*wrapperspb.UInt64Value, error)
	BalanceOf(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Delegates(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	GetCurrentVotes(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Allowance(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	GetPriorVotes(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
}

// UnimplementedLedgerQueryServer can be embedded for forward compatibility.
type UnimplementedLedgerQueryServer struct{}

func (UnimplementedLedgerQueryServer) TotalSupply(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method TotalSupply not implemented")
}
func (UnimplementedLedgerQueryServer) Height(context.Context, *emptypb.Empty) (*wrapperspb.UInt64Value, error) {
	return nil, status.Error(codes.Unimplemented, "method Height not implemented")
}
func (UnimplementedLedgerQueryServer) BalanceOf(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method BalanceOf not implemented")
}
func (UnimplementedLedgerQueryServer) Delegates(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Delegates not implemented")
}
func (UnimplementedLedgerQueryServer) GetCurrentVotes(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCurrentVotes not implemented")
}
func (UnimplementedLedgerQueryServer) Allowance(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Allowance not implemented")
}
func (UnimplementedLedgerQueryServer) GetPriorVotes(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPriorVotes not implemented")
}

// RegisterLedgerQueryServer registers the LedgerQuery service on a gRPC server.
func RegisterLedgerQueryServer(s grpc.ServiceRegistrar, srv LedgerQueryServer) {
	s.RegisterService(&LedgerQuery_ServiceDesc, srv)
}

func _LedgerQuery_TotalSupply_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerQueryServer).TotalSupply(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/TotalSupply"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LedgerQueryServer).TotalSupply(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _LedgerQuery_Height_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerQueryServer).Height(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Height"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LedgerQueryServer).Height(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _LedgerQuery_BalanceOf_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerQueryServer).BalanceOf(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/BalanceOf"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LedgerQueryServer).BalanceOf(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _LedgerQuery_Delegates_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerQueryServer).Delegates(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Delegates"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LedgerQueryServer).Delegates(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _LedgerQuery_GetCurrentVotes_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerQueryServer).GetCurrentVotes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetCurrentVotes"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LedgerQueryServer).GetCurrentVotes(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _LedgerQuery_Allowance_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerQueryServer).Allowance(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Allowance"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LedgerQueryServer).Allowance(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _LedgerQuery_GetPriorVotes_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerQueryServer).GetPriorVotes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetPriorVotes"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LedgerQueryServer).GetPriorVotes(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// LedgerQuery_ServiceDesc is the grpc.ServiceDesc for the LedgerQuery service.
var LedgerQuery_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LedgerQueryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "TotalSupply", Handler: _LedgerQuery_TotalSupply_Handler},
		{MethodName: "Height", Handler: _LedgerQuery_Height_Handler},
		{MethodName: "BalanceOf", Handler: _LedgerQuery_BalanceOf_Handler},
		{MethodName: "Delegates", Handler: _LedgerQuery_Delegates_Handler},
		{MethodName: "GetCurrentVotes", Handler: _LedgerQuery_GetCurrentVotes_Handler},
		{MethodName: "Allowance", Handler: _LedgerQuery_Allowance_Handler},
		{MethodName: "GetPriorVotes", Handler: _LedgerQuery_GetPriorVotes_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledgerquery.proto",
}
