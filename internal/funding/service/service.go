// Package service orchestrates the funding ledger: project creation, funding,
// settlement, delegated vault approval, and atomic batches. Every mutating
// operation follows checks-effects-interactions: preconditions and deltas
// first, ledger writes second, vault value movement last, all inside one
// storage+vault transaction pair.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sarangparikh22/bentofund/internal/funding/domain"
	"github.com/sarangparikh22/bentofund/internal/funding/storage"
	apperrors "github.com/sarangparikh22/bentofund/internal/platform/errors"
	"github.com/sarangparikh22/bentofund/internal/vault"
)

// Service is the funding ledger engine. Mutating operations serialize on one
// mutex; reads go straight to the store.
type Service struct {
	mu       sync.Mutex
	store    storage.Store
	vault    vault.Client
	contract vault.AccountID
	native   vault.AssetID
	clock    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the authoritative time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// New creates a Service. contract is this system's identity in the vault;
// native is the asset whose wallet deposits must carry attached native value.
func New(store storage.Store, vaultClient vault.Client, contract vault.AccountID, native vault.AssetID, opts ...Option) *Service {
	s := &Service{
		store:    store,
		vault:    vaultClient,
		contract: contract,
		native:   native,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// unit pairs one storage transaction with one vault session so ledger effects
// and external value movement commit or roll back together.
type unit struct {
	stx storage.Tx
	vtx vault.Tx
}

func (s *Service) beginUnit(ctx context.Context) (*unit, error) {
	stx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ledger transaction: %w", err)
	}
	vtx, err := s.vault.Begin(ctx)
	if err != nil {
		_ = stx.Rollback()
		return nil, fmt.Errorf("begin vault session: %w", err)
	}
	return &unit{stx: stx, vtx: vtx}, nil
}

func (u *unit) commit() error {
	if err := u.stx.Commit(); err != nil {
		_ = u.vtx.Rollback()
		return fmt.Errorf("commit ledger transaction: %w", err)
	}
	if err := u.vtx.Commit(); err != nil {
		return fmt.Errorf("commit vault session: %w", err)
	}
	return nil
}

func (u *unit) rollback() {
	_ = u.stx.Rollback()
	_ = u.vtx.Rollback()
}

// runInUnit executes op inside a fresh unit, committing on success and rolling
// everything back on failure.
func (s *Service) runInUnit(ctx context.Context, op func(*unit) error) error {
	u, err := s.beginUnit(ctx)
	if err != nil {
		return err
	}
	if err := op(u); err != nil {
		u.rollback()
		return err
	}
	return u.commit()
}

func projectMetadata(id uint64) map[string]string {
	return map[string]string{"project_id": strconv.FormatUint(id, 10)}
}

func (s *Service) getProjectTx(ctx context.Context, u *unit, id uint64) (domain.Project, error) {
	project, err := u.stx.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Project{}, apperrors.WithMetadata(apperrors.CodeNotFound,
				"project not found", projectMetadata(id))
		}
		return domain.Project{}, fmt.Errorf("load project %d: %w", id, err)
	}
	return project, nil
}

// depositedValue converts the project aggregate to underlying units at the
// current vault rate. This single read decides success against the goal.
func (s *Service) depositedValue(ctx context.Context, project domain.Project) (uint64, error) {
	value, err := s.vault.ToAmount(ctx, project.Asset, project.DepositedShares, false)
	if err != nil {
		return 0, fmt.Errorf("convert deposited shares: %w", err)
	}
	return value, nil
}

// ProjectView is a project record joined with its derived lifecycle state.
type ProjectView struct {
	Project        domain.Project
	DepositedValue uint64
	Phase          domain.PhaseKind
}

// GetProject returns a project with its phase derived at read time.
func (s *Service) GetProject(ctx context.Context, id uint64) (ProjectView, error) {
	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ProjectView{}, apperrors.WithMetadata(apperrors.CodeNotFound,
				"project not found", projectMetadata(id))
		}
		return ProjectView{}, fmt.Errorf("load project %d: %w", id, err)
	}
	return s.viewOf(ctx, project)
}

func (s *Service) viewOf(ctx context.Context, project domain.Project) (ProjectView, error) {
	value, err := s.depositedValue(ctx, project)
	if err != nil {
		return ProjectView{}, err
	}
	return ProjectView{
		Project:        project,
		DepositedValue: value,
		Phase:          project.Phase(s.clock(), value),
	}, nil
}

// ListProjects returns up to limit projects with ids greater than afterID.
func (s *Service) ListProjects(ctx context.Context, afterID uint64, limit int) ([]ProjectView, error) {
	projects, err := s.store.ListProjects(ctx, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	views := make([]ProjectView, 0, len(projects))
	for _, project := range projects {
		view, err := s.viewOf(ctx, project)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// FunderBalance returns the recorded share balance for (project, funder).
func (s *Service) FunderBalance(ctx context.Context, projectID uint64, funder vault.AccountID) (uint64, error) {
	shares, err := s.store.FunderShares(ctx, projectID, funder)
	if err != nil {
		return 0, fmt.Errorf("funder balance: %w", err)
	}
	return shares, nil
}

// NextProjectID returns the id the next created project will receive.
func (s *Service) NextProjectID(ctx context.Context) (uint64, error) {
	next, err := s.store.NextProjectID(ctx)
	if err != nil {
		return 0, fmt.Errorf("next project id: %w", err)
	}
	return next, nil
}
