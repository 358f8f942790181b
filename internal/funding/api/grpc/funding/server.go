package funding

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/sarangparikh22/bentofund/internal/funding/service"
	apperrors "github.com/sarangparikh22/bentofund/internal/platform/errors"
	platformgrpc "github.com/sarangparikh22/bentofund/internal/platform/grpc"
)

var listPageSize = platformgrpc.PageSizeConfig{Default: 50, Max: 200}

// Server serves the funding gRPC API on top of the service engine.
type Server struct {
	UnimplementedFundingServer
	svc *service.Service
}

// NewServer wraps svc in the gRPC transport.
func NewServer(svc *service.Service) *Server {
	return &Server{svc: svc}
}

func decode[T any](in *wrapperspb.BytesValue) (T, error) {
	var call T
	if err := json.Unmarshal(in.GetValue(), &call); err != nil {
		return call, status.Errorf(codes.InvalidArgument, "malformed request body: %v", err)
	}
	return call, nil
}

func encode(reply any) (*wrapperspb.BytesValue, error) {
	body, err := json.Marshal(reply)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return wrapperspb.Bytes(body), nil
}

func (s *Server) CreateProject(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	call, err := decode[CreateProjectCall](in)
	if err != nil {
		return nil, err
	}
	id, err := s.svc.CreateProject(ctx, call.Caller, call.CreateProjectRequest)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	return encode(CreateProjectReply{ProjectID: id})
}

func (s *Server) GetProject(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	call, err := decode[GetProjectCall](in)
	if err != nil {
		return nil, err
	}
	view, err := s.svc.GetProject(ctx, call.ProjectID)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	return encode(projectReply(view))
}

func (s *Server) ListProjects(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	call, err := decode[ListProjectsCall](in)
	if err != nil {
		return nil, err
	}
	views, err := s.svc.ListProjects(ctx, call.AfterID, platformgrpc.ClampPageSize(call.PageSize, listPageSize))
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	reply := ListProjectsReply{Projects: make([]ProjectReply, 0, len(views))}
	for _, view := range views {
		reply.Projects = append(reply.Projects, projectReply(view))
	}
	return encode(reply)
}

func (s *Server) NextProjectID(ctx context.Context, _ *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	next, err := s.svc.NextProjectID(ctx)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	return encode(NextProjectIDReply{ProjectID: next})
}

func (s *Server) GetFunderBalance(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	call, err := decode[GetFunderBalanceCall](in)
	if err != nil {
		return nil, err
	}
	shares, err := s.svc.FunderBalance(ctx, call.ProjectID, call.Funder)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	return encode(GetFunderBalanceReply{Shares: shares})
}

func (s *Server) FundProject(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	call, err := decode[FundProjectCall](in)
	if err != nil {
		return nil, err
	}
	if err := s.svc.FundProject(ctx, call.Caller, call.FundProjectRequest); err != nil {
		return nil, apperrors.HandleError(err)
	}
	return encode(struct{}{})
}

func (s *Server) Refund(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	call, err := decode[RefundCall](in)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Refund(ctx, call.Caller, call.RefundRequest); err != nil {
		return nil, apperrors.HandleError(err)
	}
	return encode(struct{}{})
}

func (s *Server) Withdraw(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	call, err := decode[WithdrawCall](in)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Withdraw(ctx, call.Caller, call.WithdrawRequest); err != nil {
		return nil, apperrors.HandleError(err)
	}
	return encode(struct{}{})
}

func (s *Server) SetVaultApproval(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	call, err := decode[SetVaultApprovalCall](in)
	if err != nil {
		return nil, err
	}
	if err := s.svc.SetVaultApproval(ctx, call.SetVaultApprovalRequest); err != nil {
		return nil, apperrors.HandleError(err)
	}
	return encode(struct{}{})
}

func (s *Server) Batch(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	call, err := decode[BatchCall](in)
	if err != nil {
		return nil, err
	}
	results, err := s.svc.Batch(ctx, call.Caller, call.Ops, call.RevertOnFailure)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	return encode(BatchReply{Results: results})
}
