package funding

import (
	"time"

	"github.com/sarangparikh22/bentofund/internal/funding/service"
	"github.com/sarangparikh22/bentofund/internal/vault"
)

// Wire types for the funding service. Every RPC carries a JSON body inside a
// protobuf BytesValue, so no protoc toolchain is needed. Operation bodies
// reuse the service request types; calls add the acting account.

// CreateProjectCall creates a project owned by Caller.
type CreateProjectCall struct {
	Caller vault.AccountID `json:"caller"`
	service.CreateProjectRequest
}

// CreateProjectReply reports the allocated project id.
type CreateProjectReply struct {
	ProjectID uint64 `json:"project_id"`
}

// FundProjectCall contributes to a project on behalf of Caller.
type FundProjectCall struct {
	Caller vault.AccountID `json:"caller"`
	service.FundProjectRequest
}

// RefundCall reclaims part of Caller's contribution.
type RefundCall struct {
	Caller vault.AccountID `json:"caller"`
	service.RefundRequest
}

// WithdrawCall settles a successful project for its owner.
type WithdrawCall struct {
	Caller vault.AccountID `json:"caller"`
	service.WithdrawRequest
}

// SetVaultApprovalCall submits a signed vault approval. The signature, not
// the submitter, authorizes the change.
type SetVaultApprovalCall struct {
	service.SetVaultApprovalRequest
}

// BatchCall runs operations in order under one caller.
type BatchCall struct {
	Caller          vault.AccountID   `json:"caller"`
	Ops             []service.BatchOp `json:"ops"`
	RevertOnFailure bool              `json:"revert_on_failure"`
}

// BatchReply carries the per-step outcomes.
type BatchReply struct {
	Results []service.BatchResult `json:"results"`
}

// GetProjectCall fetches one project.
type GetProjectCall struct {
	ProjectID uint64 `json:"project_id"`
}

// ProjectReply is a project joined with its derived state.
type ProjectReply struct {
	ProjectID       uint64          `json:"project_id"`
	Owner           vault.AccountID `json:"owner"`
	Asset           vault.AssetID   `json:"asset"`
	Goal            uint64          `json:"goal_amount"`
	DepositedShares uint64          `json:"deposited_shares"`
	DepositedValue  uint64          `json:"deposited_value"`
	Phase           string          `json:"phase"`
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	CreatedAt       time.Time       `json:"created_at"`
}

func projectReply(view service.ProjectView) ProjectReply {
	return ProjectReply{
		ProjectID:       view.Project.ID,
		Owner:           view.Project.Owner,
		Asset:           view.Project.Asset,
		Goal:            view.Project.Goal,
		DepositedShares: view.Project.DepositedShares,
		DepositedValue:  view.DepositedValue,
		Phase:           view.Phase.String(),
		Start:           view.Project.Start,
		End:             view.Project.End,
		CreatedAt:       view.Project.CreatedAt,
	}
}

// ListProjectsCall pages through projects by ascending id.
type ListProjectsCall struct {
	AfterID  uint64 `json:"after_id,omitempty"`
	PageSize int32  `json:"page_size,omitempty"`
}

// ListProjectsReply returns one page of projects.
type ListProjectsReply struct {
	Projects []ProjectReply `json:"projects"`
}

// GetFunderBalanceCall fetches a funder's recorded shares for a project.
type GetFunderBalanceCall struct {
	ProjectID uint64          `json:"project_id"`
	Funder    vault.AccountID `json:"funder"`
}

// GetFunderBalanceReply carries the recorded share balance.
type GetFunderBalanceReply struct {
	Shares uint64 `json:"shares"`
}

// NextProjectIDReply announces the id the next project will receive.
type NextProjectIDReply struct {
	ProjectID uint64 `json:"project_id"`
}
