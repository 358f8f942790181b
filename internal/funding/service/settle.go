package service

import (
	"context"
	"fmt"
	"strconv"

	apperrors "github.com/sarangparikh22/bentofund/internal/platform/errors"
	"github.com/sarangparikh22/bentofund/internal/vault"
)

// RefundRequest reclaims part of a contribution from a failed campaign.
// ToVault leaves the shares inside the vault under the caller's account;
// otherwise the underlying amount is paid out to the caller's wallet.
type RefundRequest struct {
	ProjectID uint64 `json:"project_id"`
	Amount    uint64 `json:"amount"`
	ToVault   bool   `json:"to_vault"`
}

// WithdrawRequest settles a successful campaign, paying the whole aggregate
// to the project owner.
type WithdrawRequest struct {
	ProjectID uint64 `json:"project_id"`
	ToVault   bool   `json:"to_vault"`
}

// Refund returns amount of the project's asset to the caller after a failed
// campaign. Partial refunds are allowed up to the caller's recorded balance.
func (s *Service) Refund(ctx context.Context, caller vault.AccountID, req RefundRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.runInUnit(ctx, func(u *unit) error {
		return s.refundTx(ctx, u, caller, req)
	})
}

func (s *Service) refundTx(ctx context.Context, u *unit, caller vault.AccountID, req RefundRequest) error {
	if req.Amount == 0 {
		return apperrors.New(apperrors.CodeInvalidAmount, "amount must be positive")
	}
	project, err := s.getProjectTx(ctx, u, req.ProjectID)
	if err != nil {
		return err
	}
	value, err := s.depositedValue(ctx, project)
	if err != nil {
		return err
	}
	if err := project.GateRefund(s.clock(), value); err != nil {
		return err
	}

	shareDelta, err := s.vault.ToShare(ctx, project.Asset, req.Amount, false)
	if err != nil {
		return fmt.Errorf("convert refund: %w", err)
	}
	if shareDelta == 0 {
		return apperrors.New(apperrors.CodeInvalidAmount, "amount converts to zero shares")
	}
	recorded, err := u.stx.FunderShares(ctx, req.ProjectID, caller)
	if err != nil {
		return fmt.Errorf("funder balance: %w", err)
	}
	if shareDelta > recorded {
		return apperrors.WithMetadata(apperrors.CodeInsufficientFunderBalance,
			"refund exceeds recorded contribution", map[string]string{
				"requested_shares": strconv.FormatUint(shareDelta, 10),
				"recorded_shares":  strconv.FormatUint(recorded, 10),
			})
	}

	if err := u.stx.SubtractDeposit(ctx, req.ProjectID, caller, shareDelta); err != nil {
		return fmt.Errorf("record refund: %w", err)
	}

	if req.ToVault {
		err = u.vtx.Transfer(ctx, project.Asset, s.contract, caller, shareDelta)
	} else {
		_, err = u.vtx.Withdraw(ctx, project.Asset, s.contract, caller, shareDelta)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeExternalTransferFailed, "vault transfer failed", err)
	}
	return nil
}

// Withdraw pays the entire deposited aggregate of a successful campaign to
// its owner and marks the project settled. Funder entries are left in place
// as an inert contribution record; a second withdraw sees an empty aggregate
// and fails the success check.
func (s *Service) Withdraw(ctx context.Context, caller vault.AccountID, req WithdrawRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.runInUnit(ctx, func(u *unit) error {
		return s.withdrawTx(ctx, u, caller, req)
	})
}

func (s *Service) withdrawTx(ctx context.Context, u *unit, caller vault.AccountID, req WithdrawRequest) error {
	project, err := s.getProjectTx(ctx, u, req.ProjectID)
	if err != nil {
		return err
	}
	value, err := s.depositedValue(ctx, project)
	if err != nil {
		return err
	}
	if err := project.GateWithdraw(s.clock(), value); err != nil {
		return err
	}
	if caller != project.Owner {
		return apperrors.WithMetadata(apperrors.CodeUnauthorized,
			"only the project owner may withdraw", projectMetadata(req.ProjectID))
	}

	shares := project.DepositedShares
	if err := u.stx.ZeroDepositedShares(ctx, req.ProjectID); err != nil {
		return fmt.Errorf("settle project: %w", err)
	}
	if shares == 0 {
		return nil
	}

	if req.ToVault {
		err = u.vtx.Transfer(ctx, project.Asset, s.contract, caller, shares)
	} else {
		_, err = u.vtx.Withdraw(ctx, project.Asset, s.contract, caller, shares)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeExternalTransferFailed, "vault transfer failed", err)
	}
	return nil
}
