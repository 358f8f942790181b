package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sarangparikh22/bentofund/internal/funding/domain"
	apperrors "github.com/sarangparikh22/bentofund/internal/platform/errors"
	"github.com/sarangparikh22/bentofund/internal/vault"
)

// CreateProjectRequest declares a new campaign.
type CreateProjectRequest struct {
	Asset vault.AssetID `json:"asset"`
	Goal  uint64        `json:"goal_amount"`
	Start time.Time     `json:"start"`
	End   time.Time     `json:"end"`
}

// FundProjectRequest contributes amount of the project's asset. FromVault
// pulls already-deposited vault shares from the caller; otherwise the
// contribution enters the vault from the caller's wallet. NativeValue is the
// attached native amount and is only meaningful for wallet funding of the
// native asset.
type FundProjectRequest struct {
	ProjectID   uint64 `json:"project_id"`
	Amount      uint64 `json:"amount"`
	FromVault   bool   `json:"from_vault"`
	NativeValue uint64 `json:"native_value,omitempty"`
}

// CreateProject validates timing, allocates the next project id and persists
// the record. The caller becomes the project owner.
func (s *Service) CreateProject(ctx context.Context, caller vault.AccountID, req CreateProjectRequest) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id uint64
	err := s.runInUnit(ctx, func(u *unit) error {
		var err error
		id, err = s.createProjectTx(ctx, u, caller, req)
		return err
	})
	return id, err
}

func (s *Service) createProjectTx(ctx context.Context, u *unit, caller vault.AccountID, req CreateProjectRequest) (uint64, error) {
	project, err := domain.NewProject(domain.CreateProjectInput{
		Owner: caller,
		Asset: req.Asset,
		Goal:  req.Goal,
		Start: req.Start,
		End:   req.End,
	}, s.clock())
	if err != nil {
		return 0, err
	}
	id, err := u.stx.CreateProject(ctx, project)
	if err != nil {
		return 0, fmt.Errorf("create project: %w", err)
	}
	return id, nil
}

// FundProject records a contribution and moves the matching value into the
// vault under this system's account. The share delta is fixed by the vault
// rate at call time and credited to the caller's refund balance.
func (s *Service) FundProject(ctx context.Context, caller vault.AccountID, req FundProjectRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.runInUnit(ctx, func(u *unit) error {
		return s.fundProjectTx(ctx, u, caller, req)
	})
}

func (s *Service) fundProjectTx(ctx context.Context, u *unit, caller vault.AccountID, req FundProjectRequest) error {
	if req.Amount == 0 {
		return apperrors.New(apperrors.CodeInvalidAmount, "amount must be positive")
	}
	project, err := s.getProjectTx(ctx, u, req.ProjectID)
	if err != nil {
		return err
	}
	if err := project.GateFund(s.clock()); err != nil {
		return err
	}
	if err := s.checkNativeValue(project.Asset, req); err != nil {
		return err
	}

	shareDelta, err := s.vault.ToShare(ctx, project.Asset, req.Amount, false)
	if err != nil {
		return fmt.Errorf("convert contribution: %w", err)
	}
	if shareDelta == 0 {
		return apperrors.New(apperrors.CodeInvalidAmount, "amount converts to zero shares")
	}

	if err := u.stx.AddDeposit(ctx, req.ProjectID, caller, shareDelta); err != nil {
		return fmt.Errorf("record deposit: %w", err)
	}

	if req.FromVault {
		err = u.vtx.Transfer(ctx, project.Asset, caller, s.contract, shareDelta)
	} else {
		_, err = u.vtx.Deposit(ctx, project.Asset, caller, s.contract, req.Amount, req.NativeValue)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeExternalTransferFailed, "vault transfer failed", err)
	}
	return nil
}

// checkNativeValue enforces the attached-value rules: vault-sourced funding
// never carries native value, wallet funding of the native asset must attach
// exactly the contribution amount, and every other asset must attach none.
func (s *Service) checkNativeValue(asset vault.AssetID, req FundProjectRequest) error {
	if req.FromVault {
		if req.NativeValue != 0 {
			return apperrors.New(apperrors.CodeInvalidAmount,
				"native value not allowed when funding from vault balance")
		}
		return nil
	}
	if asset == s.native {
		if req.NativeValue != req.Amount {
			return apperrors.WithMetadata(apperrors.CodeInvalidAmount,
				"attached native value must equal amount", map[string]string{
					"amount":       strconv.FormatUint(req.Amount, 10),
					"native_value": strconv.FormatUint(req.NativeValue, 10),
				})
		}
		return nil
	}
	if req.NativeValue != 0 {
		return apperrors.New(apperrors.CodeInvalidAmount,
			"native value not allowed for non-native assets")
	}
	return nil
}
