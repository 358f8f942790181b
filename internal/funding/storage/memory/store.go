// Package memory provides an in-memory ledger store for tests and the
// self-contained dev server.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sarangparikh22/bentofund/internal/funding/domain"
	"github.com/sarangparikh22/bentofund/internal/funding/storage"
	"github.com/sarangparikh22/bentofund/internal/vault"
)

type depositKey struct {
	projectID uint64
	funder    vault.AccountID
}

// Store keeps the ledger in process memory. Transactions copy state on Begin
// and swap it in on Commit, so a rollback is free.
type Store struct {
	mu       sync.Mutex
	projects map[uint64]domain.Project
	deposits map[depositKey]uint64
	nextID   uint64
	inTx     bool
}

// New creates an empty in-memory store. Project ids start at 1.
func New() *Store {
	return &Store{
		projects: make(map[uint64]domain.Project),
		deposits: make(map[depositKey]uint64),
		nextID:   1,
	}
}

// Begin implements storage.Store. Transactions do not nest.
func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inTx {
		return nil, fmt.Errorf("memory store: transaction already open")
	}
	s.inTx = true
	tx := &memTx{
		store:    s,
		projects: make(map[uint64]domain.Project, len(s.projects)),
		deposits: make(map[depositKey]uint64, len(s.deposits)),
		nextID:   s.nextID,
	}
	for id, project := range s.projects {
		tx.projects[id] = project
	}
	for key, shares := range s.deposits {
		tx.deposits[key] = shares
	}
	return tx, nil
}

// GetProject implements storage.Store.
func (s *Store) GetProject(ctx context.Context, id uint64) (domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return domain.Project{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	project, ok := s.projects[id]
	if !ok {
		return domain.Project{}, storage.ErrNotFound
	}
	return project, nil
}

// ListProjects implements storage.Store.
func (s *Store) ListProjects(ctx context.Context, afterID uint64, limit int) ([]domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint64, 0, len(s.projects))
	for id := range s.projects {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	projects := make([]domain.Project, 0, len(ids))
	for _, id := range ids {
		projects = append(projects, s.projects[id])
	}
	return projects, nil
}

// NextProjectID implements storage.Store.
func (s *Store) NextProjectID(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID, nil
}

// FunderShares implements storage.Store.
func (s *Store) FunderShares(ctx context.Context, projectID uint64, funder vault.AccountID) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deposits[depositKey{projectID, funder}], nil
}

// SumFunderShares implements storage.Store.
func (s *Store) SumFunderShares(ctx context.Context, projectID uint64) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var total uint64
	for key, shares := range s.deposits {
		if key.projectID == projectID {
			total += shares
		}
	}
	return total, nil
}

// Close implements storage.Store.
func (s *Store) Close() error {
	return nil
}

type memTx struct {
	store    *Store
	projects map[uint64]domain.Project
	deposits map[depositKey]uint64
	nextID   uint64
	done     bool
}

func (t *memTx) CreateProject(ctx context.Context, project domain.Project) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	id := t.nextID
	t.nextID++
	project.ID = id
	t.projects[id] = project
	return id, nil
}

func (t *memTx) GetProject(ctx context.Context, id uint64) (domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return domain.Project{}, err
	}
	project, ok := t.projects[id]
	if !ok {
		return domain.Project{}, storage.ErrNotFound
	}
	return project, nil
}

func (t *memTx) FunderShares(ctx context.Context, projectID uint64, funder vault.AccountID) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return t.deposits[depositKey{projectID, funder}], nil
}

func (t *memTx) AddDeposit(ctx context.Context, projectID uint64, funder vault.AccountID, shares uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	project, ok := t.projects[projectID]
	if !ok {
		return storage.ErrNotFound
	}
	project.DepositedShares += shares
	t.projects[projectID] = project
	t.deposits[depositKey{projectID, funder}] += shares
	return nil
}

func (t *memTx) SubtractDeposit(ctx context.Context, projectID uint64, funder vault.AccountID, shares uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	project, ok := t.projects[projectID]
	if !ok {
		return storage.ErrNotFound
	}
	key := depositKey{projectID, funder}
	if t.deposits[key] < shares || project.DepositedShares < shares {
		return storage.ErrInsufficientShares
	}
	project.DepositedShares -= shares
	t.projects[projectID] = project
	t.deposits[key] -= shares
	return nil
}

func (t *memTx) ZeroDepositedShares(ctx context.Context, projectID uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	project, ok := t.projects[projectID]
	if !ok {
		return storage.ErrNotFound
	}
	project.DepositedShares = 0
	t.projects[projectID] = project
	return nil
}

func (t *memTx) Commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.done {
		return fmt.Errorf("memory store: transaction already closed")
	}
	t.done = true
	s.projects = t.projects
	s.deposits = t.deposits
	s.nextID = t.nextID
	s.inTx = false
	return nil
}

func (t *memTx) Rollback() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	s.inTx = false
	return nil
}
