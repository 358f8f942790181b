package memvault

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/sarangparikh22/bentofund/internal/vault"
)

// SignApproval produces the signature envelope SetMasterApproval expects:
// an 8-byte big-endian nonce followed by an ed25519 signature over
// vault.ApprovalDigest(owner, contract, approved, nonce).
func SignApproval(key ed25519.PrivateKey, owner, contract vault.AccountID, approved bool, nonce uint64) []byte {
	digest := vault.ApprovalDigest(owner, contract, approved, nonce)
	signature := make([]byte, 8, 8+ed25519.SignatureSize)
	binary.BigEndian.PutUint64(signature[:8], nonce)
	return append(signature, ed25519.Sign(key, digest[:])...)
}
