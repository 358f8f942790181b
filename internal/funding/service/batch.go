package service

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "github.com/sarangparikh22/bentofund/internal/platform/errors"
	"github.com/sarangparikh22/bentofund/internal/vault"
)

// Batch operation names. Bodies are the JSON encodings of the matching
// request types in this package.
const (
	OpCreateProject    = "createProject"
	OpFundProject      = "fundProject"
	OpRefund           = "refund"
	OpWithdraw         = "withdraw"
	OpSetVaultApproval = "setVaultApproval"
)

// BatchOp is one step of a batch: an operation name and its JSON body.
type BatchOp struct {
	Op   string          `json:"op"`
	Body json.RawMessage `json:"body,omitempty"`
}

// BatchResult reports the outcome of one batch step.
type BatchResult struct {
	Op        string `json:"op"`
	OK        bool   `json:"ok"`
	Code      string `json:"code,omitempty"`
	Error     string `json:"error,omitempty"`
	ProjectID uint64 `json:"project_id,omitempty"`
}

// Batch executes ops in order under a single caller. With revertOnFailure the
// whole batch runs as one storage+vault transaction and the first failure
// rolls everything back; without it each step commits independently and
// failures are captured in the step's result.
func (s *Service) Batch(ctx context.Context, caller vault.AccountID, ops []BatchOp, revertOnFailure bool) ([]BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if revertOnFailure {
		return s.batchAtomic(ctx, caller, ops)
	}
	return s.batchBestEffort(ctx, caller, ops)
}

func (s *Service) batchAtomic(ctx context.Context, caller vault.AccountID, ops []BatchOp) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(ops))
	err := s.runInUnit(ctx, func(u *unit) error {
		for i, op := range ops {
			result, err := s.dispatch(ctx, u, caller, op)
			if err != nil {
				return fmt.Errorf("batch step %d (%s): %w", i, op.Op, err)
			}
			results = append(results, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) batchBestEffort(ctx context.Context, caller vault.AccountID, ops []BatchOp) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(ops))
	for _, op := range ops {
		var result BatchResult
		err := s.runInUnit(ctx, func(u *unit) error {
			var err error
			result, err = s.dispatch(ctx, u, caller, op)
			return err
		})
		if err != nil {
			result = BatchResult{
				Op:    op.Op,
				Code:  string(apperrors.GetCode(err)),
				Error: err.Error(),
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *Service) dispatch(ctx context.Context, u *unit, caller vault.AccountID, op BatchOp) (BatchResult, error) {
	switch op.Op {
	case OpCreateProject:
		var req CreateProjectRequest
		if err := decodeBody(op, &req); err != nil {
			return BatchResult{}, err
		}
		id, err := s.createProjectTx(ctx, u, caller, req)
		if err != nil {
			return BatchResult{}, err
		}
		return BatchResult{Op: op.Op, OK: true, ProjectID: id}, nil
	case OpFundProject:
		var req FundProjectRequest
		if err := decodeBody(op, &req); err != nil {
			return BatchResult{}, err
		}
		if err := s.fundProjectTx(ctx, u, caller, req); err != nil {
			return BatchResult{}, err
		}
		return BatchResult{Op: op.Op, OK: true, ProjectID: req.ProjectID}, nil
	case OpRefund:
		var req RefundRequest
		if err := decodeBody(op, &req); err != nil {
			return BatchResult{}, err
		}
		if err := s.refundTx(ctx, u, caller, req); err != nil {
			return BatchResult{}, err
		}
		return BatchResult{Op: op.Op, OK: true, ProjectID: req.ProjectID}, nil
	case OpWithdraw:
		var req WithdrawRequest
		if err := decodeBody(op, &req); err != nil {
			return BatchResult{}, err
		}
		if err := s.withdrawTx(ctx, u, caller, req); err != nil {
			return BatchResult{}, err
		}
		return BatchResult{Op: op.Op, OK: true, ProjectID: req.ProjectID}, nil
	case OpSetVaultApproval:
		var req SetVaultApprovalRequest
		if err := decodeBody(op, &req); err != nil {
			return BatchResult{}, err
		}
		if err := s.setVaultApprovalTx(ctx, u, req); err != nil {
			return BatchResult{}, err
		}
		return BatchResult{Op: op.Op, OK: true}, nil
	default:
		return BatchResult{}, apperrors.WithMetadata(apperrors.CodeInvalidBatchOp,
			"unknown batch operation", map[string]string{"op": op.Op})
	}
}

func decodeBody(op BatchOp, dst any) error {
	if err := json.Unmarshal(op.Body, dst); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidBatchOp,
			fmt.Sprintf("malformed %s body", op.Op), err)
	}
	return nil
}
