package domain

import (
	"time"

	apperrors "github.com/sarangparikh22/bentofund/internal/platform/errors"
	"github.com/sarangparikh22/bentofund/internal/vault"
)

// Project is one crowdfunding campaign: a goal in underlying asset units, a
// funding window, and a share-denominated deposit aggregate. Records are never
// deleted; a settled project remains queryable with zero deposited shares.
type Project struct {
	ID              uint64
	Owner           vault.AccountID
	Asset           vault.AssetID
	Goal            uint64 // underlying asset units
	DepositedShares uint64 // vault share units
	Start           time.Time
	End             time.Time
	CreatedAt       time.Time
}

// FunderDeposit records one funder's share balance in one project. Entries are
// created on first funding and become inert once the project settles (withdraw
// clears the project aggregate without walking funder entries).
type FunderDeposit struct {
	ProjectID uint64
	Funder    vault.AccountID
	Shares    uint64
}

// CreateProjectInput describes the data needed to create a project.
type CreateProjectInput struct {
	Owner vault.AccountID
	Asset vault.AssetID
	Goal  uint64
	Start time.Time
	End   time.Time
}

// NewProject validates input against the creation rules and returns the
// record to persist. The id is assigned by storage at insert time.
func NewProject(input CreateProjectInput, now time.Time) (Project, error) {
	if input.Start.Before(now) {
		return Project{}, apperrors.WithMetadata(apperrors.CodeInvalidStartTime,
			"project start must not be in the past",
			map[string]string{"start": input.Start.UTC().Format(time.RFC3339)})
	}
	if !input.End.After(input.Start) {
		return Project{}, apperrors.WithMetadata(apperrors.CodeInvalidEndTime,
			"project end must be after start",
			map[string]string{"end": input.End.UTC().Format(time.RFC3339)})
	}

	return Project{
		Owner:           input.Owner,
		Asset:           input.Asset,
		Goal:            input.Goal,
		DepositedShares: 0,
		Start:           input.Start.UTC(),
		End:             input.End.UTC(),
		CreatedAt:       now.UTC(),
	}, nil
}
