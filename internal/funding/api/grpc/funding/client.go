package funding

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client is a typed client for the funding gRPC service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a funding client on an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Reply any](ctx context.Context, c *Client, method string, call any, opts ...grpc.CallOption) (Reply, error) {
	var reply Reply
	body, err := json.Marshal(call)
	if err != nil {
		return reply, fmt.Errorf("encode %s request: %w", method, err)
	}
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, wrapperspb.Bytes(body), out, opts...); err != nil {
		return reply, err
	}
	if err := json.Unmarshal(out.GetValue(), &reply); err != nil {
		return reply, fmt.Errorf("decode %s response: %w", method, err)
	}
	return reply, nil
}

func (c *Client) CreateProject(ctx context.Context, call CreateProjectCall, opts ...grpc.CallOption) (CreateProjectReply, error) {
	return invoke[CreateProjectReply](ctx, c, "CreateProject", call, opts...)
}

func (c *Client) GetProject(ctx context.Context, projectID uint64, opts ...grpc.CallOption) (ProjectReply, error) {
	return invoke[ProjectReply](ctx, c, "GetProject", GetProjectCall{ProjectID: projectID}, opts...)
}

func (c *Client) ListProjects(ctx context.Context, call ListProjectsCall, opts ...grpc.CallOption) (ListProjectsReply, error) {
	return invoke[ListProjectsReply](ctx, c, "ListProjects", call, opts...)
}

func (c *Client) NextProjectID(ctx context.Context, opts ...grpc.CallOption) (NextProjectIDReply, error) {
	return invoke[NextProjectIDReply](ctx, c, "NextProjectID", struct{}{}, opts...)
}

func (c *Client) GetFunderBalance(ctx context.Context, call GetFunderBalanceCall, opts ...grpc.CallOption) (GetFunderBalanceReply, error) {
	return invoke[GetFunderBalanceReply](ctx, c, "GetFunderBalance", call, opts...)
}

func (c *Client) FundProject(ctx context.Context, call FundProjectCall, opts ...grpc.CallOption) error {
	_, err := invoke[struct{}](ctx, c, "FundProject", call, opts...)
	return err
}

func (c *Client) Refund(ctx context.Context, call RefundCall, opts ...grpc.CallOption) error {
	_, err := invoke[struct{}](ctx, c, "Refund", call, opts...)
	return err
}

func (c *Client) Withdraw(ctx context.Context, call WithdrawCall, opts ...grpc.CallOption) error {
	_, err := invoke[struct{}](ctx, c, "Withdraw", call, opts...)
	return err
}

func (c *Client) SetVaultApproval(ctx context.Context, call SetVaultApprovalCall, opts ...grpc.CallOption) error {
	_, err := invoke[struct{}](ctx, c, "SetVaultApproval", call, opts...)
	return err
}

func (c *Client) Batch(ctx context.Context, call BatchCall, opts ...grpc.CallOption) (BatchReply, error) {
	return invoke[BatchReply](ctx, c, "Batch", call, opts...)
}
