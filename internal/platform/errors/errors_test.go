package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	t.Parallel()

	err := New(CodeNotStarted, "funding window not open")
	if !stderrors.Is(err, New(CodeNotStarted, "different message")) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeEnded, "funding window not open")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk failure")
	err := Wrap(CodeExternalTransferFailed, "vault deposit failed", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", New(CodeInsufficientFunderBalance, "refund exceeds balance"))
	if got := GetCode(err); got != CodeInsufficientFunderBalance {
		t.Fatalf("code = %q, want %q", got, CodeInsufficientFunderBalance)
	}
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("code = %q, want %q", got, CodeUnknown)
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code Code
		want codes.Code
	}{
		{CodeInvalidStartTime, codes.InvalidArgument},
		{CodeInvalidEndTime, codes.InvalidArgument},
		{CodeNotStarted, codes.FailedPrecondition},
		{CodeEnded, codes.FailedPrecondition},
		{CodeNotEnded, codes.FailedPrecondition},
		{CodeFundingSucceeded, codes.FailedPrecondition},
		{CodeFundingFailed, codes.FailedPrecondition},
		{CodeInsufficientFunderBalance, codes.FailedPrecondition},
		{CodeUnauthorized, codes.PermissionDenied},
		{CodeInvalidSignature, codes.PermissionDenied},
		{CodeNonceReplay, codes.PermissionDenied},
		{CodeNotFound, codes.NotFound},
		{CodeExternalTransferFailed, codes.Aborted},
		{CodeUnknown, codes.Internal},
	}
	for _, tc := range cases {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Fatalf("%s maps to %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestHandleErrorAttachesErrorInfo(t *testing.T) {
	t.Parallel()

	err := WithMetadata(CodeNotFound, "project not found", map[string]string{"project_id": "7"})
	st, ok := status.FromError(HandleError(err))
	if !ok {
		t.Fatal("expected a gRPC status error")
	}
	if st.Code() != codes.NotFound {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.NotFound)
	}
	if len(st.Details()) == 0 {
		t.Fatal("expected ErrorInfo details on status")
	}
}

func TestHandleErrorUnknown(t *testing.T) {
	t.Parallel()

	st, ok := status.FromError(HandleError(stderrors.New("boom")))
	if !ok {
		t.Fatal("expected a gRPC status error")
	}
	if st.Code() != codes.Internal {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.Internal)
	}
}
