// Package storage defines persistence contracts for the funding ledger:
// an append-only project table plus a two-key funder-deposit table.
package storage

import (
	"context"
	"errors"

	"github.com/sarangparikh22/bentofund/internal/funding/domain"
	"github.com/sarangparikh22/bentofund/internal/vault"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientShares indicates a deduction exceeds the recorded balance.
	ErrInsufficientShares = errors.New("deduction exceeds recorded shares")
)

// Store persists projects and funder deposits. Reads outside a transaction
// observe the last committed state.
type Store interface {
	// Begin opens a read-write transaction. All ledger mutations belonging to
	// one operation must happen on a single transaction.
	Begin(ctx context.Context) (Tx, error)

	// GetProject returns a project by id, or ErrNotFound.
	GetProject(ctx context.Context, id uint64) (domain.Project, error)
	// ListProjects returns up to limit projects with ids greater than afterID,
	// in ascending id order.
	ListProjects(ctx context.Context, afterID uint64, limit int) ([]domain.Project, error)
	// NextProjectID returns the id the next created project will receive.
	NextProjectID(ctx context.Context) (uint64, error)
	// FunderShares returns the recorded share balance for (project, funder).
	// A missing entry reads as zero.
	FunderShares(ctx context.Context, projectID uint64, funder vault.AccountID) (uint64, error)
	// SumFunderShares totals all funder entries for a project. Together with
	// GetProject it backs the ledger conservation check.
	SumFunderShares(ctx context.Context, projectID uint64) (uint64, error)

	Close() error
}

// Tx is one atomic unit of ledger mutation.
type Tx interface {
	// CreateProject inserts the record and allocates the next monotonically
	// increasing project id.
	CreateProject(ctx context.Context, project domain.Project) (uint64, error)
	// GetProject returns a project by id within the transaction.
	GetProject(ctx context.Context, id uint64) (domain.Project, error)
	// FunderShares reads a funder's balance within the transaction.
	FunderShares(ctx context.Context, projectID uint64, funder vault.AccountID) (uint64, error)
	// AddDeposit increments both the funder entry and the project aggregate by
	// the same share delta, creating the funder entry if needed.
	AddDeposit(ctx context.Context, projectID uint64, funder vault.AccountID, shares uint64) error
	// SubtractDeposit decrements both the funder entry and the project
	// aggregate, failing with ErrInsufficientShares rather than going negative.
	SubtractDeposit(ctx context.Context, projectID uint64, funder vault.AccountID, shares uint64) error
	// ZeroDepositedShares clears the project aggregate without touching funder
	// entries. Those entries are inert afterwards; the project is settled.
	ZeroDepositedShares(ctx context.Context, projectID uint64) error

	Commit() error
	Rollback() error
}
