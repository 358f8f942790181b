// Package vault defines the capability interface for the external elastic
// vault that holds pooled asset balances. The vault tracks deposits as shares
// whose amount-equivalent drifts as the pool's underlying total changes; the
// funding ledger consumes this contract abstractly and never implements it.
package vault

import (
	"context"
	"errors"
)

// AccountID identifies an account known to the vault.
type AccountID string

// AssetID identifies a fungible settlement asset held by the vault.
type AssetID string

var (
	// ErrInsufficientBalance indicates a value movement exceeds the source balance.
	ErrInsufficientBalance = errors.New("vault: insufficient balance")
	// ErrNotApproved indicates the contract lacks master approval for the account.
	ErrNotApproved = errors.New("vault: contract not approved by account")
	// ErrInvalidSignature indicates an approval signature failed verification.
	ErrInvalidSignature = errors.New("vault: invalid approval signature")
	// ErrNonceMismatch indicates an approval was signed over a stale nonce.
	ErrNonceMismatch = errors.New("vault: approval nonce mismatch")
	// ErrUnknownAsset indicates the vault does not track the asset.
	ErrUnknownAsset = errors.New("vault: unknown asset")
	// ErrInvalidNativeValue indicates the attached native value does not match
	// the deposit amount, or native value was attached to a non-native deposit.
	ErrInvalidNativeValue = errors.New("vault: invalid native value")
)

// Client is the read surface plus transactional entry point of the vault.
type Client interface {
	// ToShare converts an underlying amount to vault shares at the current rate.
	ToShare(ctx context.Context, asset AssetID, amount uint64, roundUp bool) (uint64, error)
	// ToAmount converts vault shares to an underlying amount at the current rate.
	ToAmount(ctx context.Context, asset AssetID, shares uint64, roundUp bool) (uint64, error)
	// Balance returns the share balance the vault holds for owner.
	Balance(ctx context.Context, owner AccountID, asset AssetID) (uint64, error)
	// Nonce returns the current delegated-approval nonce for owner.
	Nonce(ctx context.Context, owner AccountID) (uint64, error)
	// Begin opens a transactional session. All value movement belonging to one
	// atomic ledger operation must happen on a single session so a failure can
	// roll every transfer back.
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one transactional vault session. Operations are visible to reads
// immediately but are discarded wholesale by Rollback.
type Tx interface {
	// Deposit pulls amount of asset from the from account's external holdings
	// and credits the resulting shares to the to account. When asset is the
	// vault's distinguished native asset, nativeValue carries the attached
	// native amount to wrap; otherwise nativeValue must be zero.
	Deposit(ctx context.Context, asset AssetID, from, to AccountID, amount, nativeValue uint64) (sharesOut uint64, err error)
	// Withdraw burns shares from the from account and pays the underlying
	// amount out to the to account's external holdings.
	Withdraw(ctx context.Context, asset AssetID, from, to AccountID, shares uint64) (amountOut uint64, err error)
	// Transfer moves shares between vault balances without touching the pool.
	Transfer(ctx context.Context, asset AssetID, from, to AccountID, shares uint64) error
	// SetMasterApproval grants or revokes the contract's authority over the
	// owner's vault balance. The vault verifies signature against
	// ApprovalDigest(owner, contract, approved, currentNonce) and increments
	// the nonce on success, invalidating the signature for replay.
	SetMasterApproval(ctx context.Context, owner, contract AccountID, approved bool, signature []byte) error

	Commit() error
	Rollback() error
}
