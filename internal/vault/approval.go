package vault

import (
	"crypto/sha256"
	"encoding/binary"
)

// approvalDomain separates approval digests from any other signed payload.
const approvalDomain = "bentofund/vault-approval/v1"

// ApprovalDigest builds the message an account signs to delegate (or revoke)
// the contract's authority over its vault balance. The digest binds the owner,
// the contract identity, the approval flag, and the owner's current nonce, so
// a signature is valid for exactly one approval state change.
//
// Layout: sha256(domain || len(owner) || owner || len(contract) || contract ||
// approved || nonce_be64), with lengths as big-endian uint16.
func ApprovalDigest(owner, contract AccountID, approved bool, nonce uint64) [32]byte {
	h := sha256.New()
	h.Write([]byte(approvalDomain))

	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(owner)))
	h.Write(lenBuf[:])
	h.Write([]byte(owner))

	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(contract)))
	h.Write(lenBuf[:])
	h.Write([]byte(contract))

	if approved {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}

	var nonceBuf [8]byte
	binary.BigEndian.PutUint64(nonceBuf[:], nonce)
	h.Write(nonceBuf[:])

	var digest [32]byte
	h.Sum(digest[:0])
	return digest
}
