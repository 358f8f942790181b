// Package memvault provides an in-memory elastic vault implementing the
// vault.Client contract. It backs tests and the self-contained dev server;
// production deployments are expected to supply an adapter to a real vault.
package memvault

import (
	"context"
	"crypto/ed25519"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/sarangparikh22/bentofund/internal/vault"
)

type balanceKey struct {
	asset   vault.AssetID
	account vault.AccountID
}

type approvalKey struct {
	owner    vault.AccountID
	contract vault.AccountID
}

// pool tracks one asset's elastic total (underlying units) against its base
// total (shares). The share price is elastic/base and drifts as profit lands.
type pool struct {
	elastic uint64
	base    uint64
}

func (p pool) toShare(amount uint64, roundUp bool) uint64 {
	if p.elastic == 0 || p.base == 0 {
		return amount
	}
	share := amount * p.base / p.elastic
	if roundUp && share*p.elastic/p.base < amount {
		share++
	}
	return share
}

func (p pool) toAmount(share uint64, roundUp bool) uint64 {
	if p.base == 0 {
		return share
	}
	amount := share * p.elastic / p.base
	if roundUp && amount*p.base/p.elastic < share {
		amount++
	}
	return amount
}

// Vault is an in-memory elastic vault. The zero value is not usable; use New.
//
// The vault is modeled from the perspective of one master contract: value
// movement whose source account differs from that contract requires the
// source account's standing approval.
type Vault struct {
	mu       sync.Mutex
	contract vault.AccountID
	native   vault.AssetID

	pools     map[vault.AssetID]pool
	shares    map[balanceKey]uint64
	wallets   map[balanceKey]uint64
	approvals map[approvalKey]bool
	nonces    map[vault.AccountID]uint64
	keys      map[vault.AccountID]ed25519.PublicKey

	snap *snapshot
}

type snapshot struct {
	pools     map[vault.AssetID]pool
	shares    map[balanceKey]uint64
	wallets   map[balanceKey]uint64
	approvals map[approvalKey]bool
	nonces    map[vault.AccountID]uint64
}

// New creates an empty vault serving the given master contract identity.
// Deposits of the native asset wrap the attached native value.
func New(contract vault.AccountID, native vault.AssetID) *Vault {
	return &Vault{
		contract:  contract,
		native:    native,
		pools:     make(map[vault.AssetID]pool),
		shares:    make(map[balanceKey]uint64),
		wallets:   make(map[balanceKey]uint64),
		approvals: make(map[approvalKey]bool),
		nonces:    make(map[vault.AccountID]uint64),
		keys:      make(map[vault.AccountID]ed25519.PublicKey),
	}
}

// NativeAsset returns the asset id whose deposits wrap attached native value.
func (v *Vault) NativeAsset() vault.AssetID {
	return v.native
}

// RegisterAccount associates a verification key with an account. Approval
// signatures from unregistered accounts always fail verification.
func (v *Vault) RegisterAccount(account vault.AccountID, key ed25519.PublicKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys[account] = key
}

// Mint credits external (non-vault) holdings of an asset to an account.
func (v *Vault) Mint(asset vault.AssetID, account vault.AccountID, amount uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.wallets[balanceKey{asset, account}] += amount
}

// SeedDeposit moves amount from an account's external holdings into its own
// vault balance at the current rate. Setup helper; it bypasses approval.
func (v *Vault) SeedDeposit(asset vault.AssetID, account vault.AccountID, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.depositLocked(asset, account, account, amount)
}

// SetApproval toggles an account's standing approval of a contract directly,
// without a signature. Mirrors an account approving from its own identity.
func (v *Vault) SetApproval(owner, contract vault.AccountID, approved bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.approvals[approvalKey{owner, contract}] = approved
}

// AddProfit grows an asset pool's underlying total without minting shares,
// simulating yield. Every existing share is worth more afterwards.
func (v *Vault) AddProfit(asset vault.AssetID, amount uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	p := v.pools[asset]
	p.elastic += amount
	v.pools[asset] = p
}

// WalletBalance returns an account's external holdings of an asset.
func (v *Vault) WalletBalance(asset vault.AssetID, account vault.AccountID) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.wallets[balanceKey{asset, account}]
}

// ToShare implements vault.Client.
func (v *Vault) ToShare(_ context.Context, asset vault.AssetID, amount uint64, roundUp bool) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pools[asset].toShare(amount, roundUp), nil
}

// ToAmount implements vault.Client.
func (v *Vault) ToAmount(_ context.Context, asset vault.AssetID, shares uint64, roundUp bool) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pools[asset].toAmount(shares, roundUp), nil
}

// Balance implements vault.Client.
func (v *Vault) Balance(_ context.Context, owner vault.AccountID, asset vault.AssetID) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.shares[balanceKey{asset, owner}], nil
}

// Nonce implements vault.Client.
func (v *Vault) Nonce(_ context.Context, owner vault.AccountID) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.nonces[owner], nil
}

// Begin implements vault.Client. The returned session mutates live state;
// Rollback restores the snapshot taken here. Sessions do not nest.
func (v *Vault) Begin(_ context.Context) (vault.Tx, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.snap != nil {
		return nil, fmt.Errorf("memvault: session already open")
	}
	v.snap = &snapshot{
		pools:     clone(v.pools),
		shares:    clone(v.shares),
		wallets:   clone(v.wallets),
		approvals: clone(v.approvals),
		nonces:    clone(v.nonces),
	}
	return &tx{vault: v}, nil
}

func clone[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, val := range src {
		dst[k] = val
	}
	return dst
}

func (v *Vault) approvedLocked(from vault.AccountID) bool {
	if from == v.contract {
		return true
	}
	return v.approvals[approvalKey{from, v.contract}]
}

func (v *Vault) depositLocked(asset vault.AssetID, from, to vault.AccountID, amount uint64) error {
	key := balanceKey{asset, from}
	if v.wallets[key] < amount {
		return vault.ErrInsufficientBalance
	}
	p := v.pools[asset]
	sharesOut := p.toShare(amount, false)
	v.wallets[key] -= amount
	p.elastic += amount
	p.base += sharesOut
	v.pools[asset] = p
	v.shares[balanceKey{asset, to}] += sharesOut
	return nil
}

type tx struct {
	vault *Vault
	done  bool
}

func (t *tx) Deposit(_ context.Context, asset vault.AssetID, from, to vault.AccountID, amount, nativeValue uint64) (uint64, error) {
	v := t.vault
	v.mu.Lock()
	defer v.mu.Unlock()
	if asset == v.native {
		if nativeValue != amount {
			return 0, fmt.Errorf("native deposit requires attached value %d, got %d: %w", amount, nativeValue, vault.ErrInvalidNativeValue)
		}
	} else if nativeValue != 0 {
		return 0, fmt.Errorf("unexpected native value on %s deposit: %w", asset, vault.ErrInvalidNativeValue)
	}
	if !v.approvedLocked(from) {
		return 0, vault.ErrNotApproved
	}
	sharesOut := v.pools[asset].toShare(amount, false)
	if err := v.depositLocked(asset, from, to, amount); err != nil {
		return 0, err
	}
	return sharesOut, nil
}

func (t *tx) Withdraw(_ context.Context, asset vault.AssetID, from, to vault.AccountID, shares uint64) (uint64, error) {
	v := t.vault
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.approvedLocked(from) {
		return 0, vault.ErrNotApproved
	}
	key := balanceKey{asset, from}
	if v.shares[key] < shares {
		return 0, vault.ErrInsufficientBalance
	}
	p := v.pools[asset]
	if p.base < shares {
		return 0, vault.ErrUnknownAsset
	}
	amountOut := p.toAmount(shares, false)
	v.shares[key] -= shares
	p.elastic -= amountOut
	p.base -= shares
	v.pools[asset] = p
	v.wallets[balanceKey{asset, to}] += amountOut
	return amountOut, nil
}

func (t *tx) Transfer(_ context.Context, asset vault.AssetID, from, to vault.AccountID, shares uint64) error {
	v := t.vault
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.approvedLocked(from) {
		return vault.ErrNotApproved
	}
	key := balanceKey{asset, from}
	if v.shares[key] < shares {
		return vault.ErrInsufficientBalance
	}
	v.shares[key] -= shares
	v.shares[balanceKey{asset, to}] += shares
	return nil
}

func (t *tx) SetMasterApproval(_ context.Context, owner, contract vault.AccountID, approved bool, signature []byte) error {
	v := t.vault
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(signature) != 8+ed25519.SignatureSize {
		return vault.ErrInvalidSignature
	}
	claimedNonce := binary.BigEndian.Uint64(signature[:8])
	if claimedNonce != v.nonces[owner] {
		return vault.ErrNonceMismatch
	}
	key, ok := v.keys[owner]
	if !ok {
		return vault.ErrInvalidSignature
	}
	digest := vault.ApprovalDigest(owner, contract, approved, claimedNonce)
	if !ed25519.Verify(key, digest[:], signature[8:]) {
		return vault.ErrInvalidSignature
	}
	v.approvals[approvalKey{owner, contract}] = approved
	v.nonces[owner]++
	return nil
}

func (t *tx) Commit() error {
	v := t.vault
	v.mu.Lock()
	defer v.mu.Unlock()
	if t.done {
		return fmt.Errorf("memvault: session already closed")
	}
	t.done = true
	v.snap = nil
	return nil
}

func (t *tx) Rollback() error {
	v := t.vault
	v.mu.Lock()
	defer v.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	v.pools = v.snap.pools
	v.shares = v.snap.shares
	v.wallets = v.snap.wallets
	v.approvals = v.snap.approvals
	v.nonces = v.snap.nonces
	v.snap = nil
	return nil
}
