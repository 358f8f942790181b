package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Project creation errors
	CodeInvalidStartTime Code = "PROJECT_INVALID_START_TIME"
	CodeInvalidEndTime   Code = "PROJECT_INVALID_END_TIME"

	// Funding window errors
	CodeNotStarted Code = "PROJECT_NOT_STARTED"
	CodeEnded      Code = "PROJECT_ENDED"

	// Settlement errors
	CodeNotEnded         Code = "PROJECT_NOT_ENDED"
	CodeFundingSucceeded Code = "PROJECT_FUNDING_SUCCEEDED"
	CodeFundingFailed    Code = "PROJECT_FUNDING_FAILED"

	// Ledger errors
	CodeInvalidAmount             Code = "LEDGER_INVALID_AMOUNT"
	CodeInsufficientFunderBalance Code = "LEDGER_INSUFFICIENT_FUNDER_BALANCE"

	// Authorization errors
	CodeUnauthorized     Code = "AUTH_UNAUTHORIZED"
	CodeInvalidSignature Code = "AUTH_INVALID_SIGNATURE"
	CodeNonceReplay      Code = "AUTH_NONCE_REPLAY"

	// Collaborator errors
	CodeExternalTransferFailed Code = "VAULT_EXTERNAL_TRANSFER_FAILED"

	// Batch errors
	CodeInvalidBatchOp Code = "BATCH_INVALID_OPERATION"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidStartTime,
		CodeInvalidEndTime,
		CodeInvalidAmount,
		CodeInvalidBatchOp:
		return codes.InvalidArgument

	// FailedPrecondition - campaign phase disallows the operation
	case CodeNotStarted,
		CodeEnded,
		CodeNotEnded,
		CodeFundingSucceeded,
		CodeFundingFailed,
		CodeInsufficientFunderBalance:
		return codes.FailedPrecondition

	// PermissionDenied - caller lacks standing
	case CodeUnauthorized,
		CodeInvalidSignature,
		CodeNonceReplay:
		return codes.PermissionDenied

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// Aborted - external collaborator rejected value movement
	case CodeExternalTransferFailed:
		return codes.Aborted

	default:
		return codes.Internal
	}
}
