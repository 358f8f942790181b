// Package funding exposes the funding service over gRPC. Requests and
// responses are JSON bodies wrapped in protobuf BytesValue messages so the
// package needs no protoc or codegen toolchain.
package funding

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "bentofund.funding.v1.FundingService"

// FundingServer is the server API for the funding gRPC service.
type FundingServer interface {
	CreateProject(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	GetProject(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	ListProjects(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	NextProjectID(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	GetFunderBalance(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	FundProject(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Refund(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Withdraw(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	SetVaultApproval(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Batch(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedFundingServer can be embedded for forward compatible servers.
type UnimplementedFundingServer struct{}

func (UnimplementedFundingServer) CreateProject(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateProject not implemented")
}
func (UnimplementedFundingServer) GetProject(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProject not implemented")
}
func (UnimplementedFundingServer) ListProjects(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ListProjects not implemented")
}
func (UnimplementedFundingServer) NextProjectID(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method NextProjectID not implemented")
}
func (UnimplementedFundingServer) GetFunderBalance(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetFunderBalance not implemented")
}
func (UnimplementedFundingServer) FundProject(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method FundProject not implemented")
}
func (UnimplementedFundingServer) Refund(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Refund not implemented")
}
func (UnimplementedFundingServer) Withdraw(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Withdraw not implemented")
}
func (UnimplementedFundingServer) SetVaultApproval(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method SetVaultApproval not implemented")
}
func (UnimplementedFundingServer) Batch(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Batch not implemented")
}

// RegisterFundingServer registers the funding service on a gRPC server.
func RegisterFundingServer(s grpc.ServiceRegistrar, srv FundingServer) {
	s.RegisterService(&Funding_ServiceDesc, srv)
}

// unaryHandler adapts a FundingServer method to a grpc.MethodDesc handler.
// Every method shares the BytesValue-in, BytesValue-out shape.
func unaryHandler(method string, invoke func(FundingServer, context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.BytesValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return invoke(srv.(FundingServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return invoke(srv.(FundingServer), ctx, req.(*wrapperspb.BytesValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Funding_ServiceDesc is the grpc.ServiceDesc for the funding service.
var Funding_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FundingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateProject", Handler: unaryHandler("CreateProject", FundingServer.CreateProject)},
		{MethodName: "GetProject", Handler: unaryHandler("GetProject", FundingServer.GetProject)},
		{MethodName: "ListProjects", Handler: unaryHandler("ListProjects", FundingServer.ListProjects)},
		{MethodName: "NextProjectID", Handler: unaryHandler("NextProjectID", FundingServer.NextProjectID)},
		{MethodName: "GetFunderBalance", Handler: unaryHandler("GetFunderBalance", FundingServer.GetFunderBalance)},
		{MethodName: "FundProject", Handler: unaryHandler("FundProject", FundingServer.FundProject)},
		{MethodName: "Refund", Handler: unaryHandler("Refund", FundingServer.Refund)},
		{MethodName: "Withdraw", Handler: unaryHandler("Withdraw", FundingServer.Withdraw)},
		{MethodName: "SetVaultApproval", Handler: unaryHandler("SetVaultApproval", FundingServer.SetVaultApproval)},
		{MethodName: "Batch", Handler: unaryHandler("Batch", FundingServer.Batch)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "funding.proto",
}
