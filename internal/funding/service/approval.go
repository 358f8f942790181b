package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/sarangparikh22/bentofund/internal/platform/errors"
	"github.com/sarangparikh22/bentofund/internal/vault"
)

// SetVaultApprovalRequest authorizes or revokes this system's right to move
// the owner's vault balances. The signature is produced offline by the owner
// over the vault approval digest and carries the owner's current nonce, so
// anyone may submit it on the owner's behalf.
type SetVaultApprovalRequest struct {
	Owner     vault.AccountID `json:"owner"`
	Approved  bool            `json:"approved"`
	Signature []byte          `json:"signature"`
}

// SetVaultApproval forwards a signed approval to the vault. The vault is the
// verifier; replayed nonces and bad signatures come back as distinct errors.
func (s *Service) SetVaultApproval(ctx context.Context, req SetVaultApprovalRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.runInUnit(ctx, func(u *unit) error {
		return s.setVaultApprovalTx(ctx, u, req)
	})
}

func (s *Service) setVaultApprovalTx(ctx context.Context, u *unit, req SetVaultApprovalRequest) error {
	err := u.vtx.SetMasterApproval(ctx, req.Owner, s.contract, req.Approved, req.Signature)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, vault.ErrNonceMismatch):
		return apperrors.Wrap(apperrors.CodeNonceReplay, "approval nonce already used", err)
	case errors.Is(err, vault.ErrInvalidSignature):
		return apperrors.Wrap(apperrors.CodeInvalidSignature, "approval signature rejected", err)
	default:
		return fmt.Errorf("set vault approval: %w", err)
	}
}
