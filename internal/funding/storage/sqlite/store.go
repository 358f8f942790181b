// Package sqlite provides a SQLite-backed funding ledger store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sarangparikh22/bentofund/internal/funding/domain"
	"github.com/sarangparikh22/bentofund/internal/funding/storage"
	"github.com/sarangparikh22/bentofund/internal/funding/storage/sqlite/migrations"
	sqlitemigrate "github.com/sarangparikh22/bentofund/internal/platform/storage/sqlitemigrate"
	"github.com/sarangparikh22/bentofund/internal/vault"
	_ "modernc.org/sqlite"
)

// Store persists the funding ledger in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite ledger store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Begin implements storage.Store.
func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	sqlTx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &sqliteTx{tx: sqlTx}, nil
}

const projectColumns = "id, owner, asset, goal_amount, deposited_shares, start_at, end_at, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (domain.Project, error) {
	var (
		project         domain.Project
		owner, asset    string
		goal, deposited int64
		startAt, endAt  int64
		createdAt       int64
		id              int64
	)
	if err := row.Scan(&id, &owner, &asset, &goal, &deposited, &startAt, &endAt, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Project{}, storage.ErrNotFound
		}
		return domain.Project{}, fmt.Errorf("scan project: %w", err)
	}
	project.ID = uint64(id)
	project.Owner = vault.AccountID(owner)
	project.Asset = vault.AssetID(asset)
	project.Goal = uint64(goal)
	project.DepositedShares = uint64(deposited)
	project.Start = fromMillis(startAt)
	project.End = fromMillis(endAt)
	project.CreatedAt = fromMillis(createdAt)
	return project, nil
}

// GetProject implements storage.Store.
func (s *Store) GetProject(ctx context.Context, id uint64) (domain.Project, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", int64(id))
	return scanProject(row)
}

// ListProjects implements storage.Store.
func (s *Store) ListProjects(ctx context.Context, afterID uint64, limit int) ([]domain.Project, error) {
	if limit <= 0 {
		limit = 1
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id > ? ORDER BY id ASC LIMIT ?",
		int64(afterID), limit)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// NextProjectID implements storage.Store. Project rows are never deleted, so
// MAX(id)+1 is the id the next insert will receive.
func (s *Store) NextProjectID(ctx context.Context) (uint64, error) {
	var maxID sql.NullInt64
	row := s.sqlDB.QueryRowContext(ctx, "SELECT MAX(id) FROM projects")
	if err := row.Scan(&maxID); err != nil {
		return 0, fmt.Errorf("next project id: %w", err)
	}
	return uint64(maxID.Int64) + 1, nil
}

// FunderShares implements storage.Store.
func (s *Store) FunderShares(ctx context.Context, projectID uint64, funder vault.AccountID) (uint64, error) {
	return funderShares(ctx, s.sqlDB, projectID, funder)
}

// SumFunderShares implements storage.Store.
func (s *Store) SumFunderShares(ctx context.Context, projectID uint64) (uint64, error) {
	var total sql.NullInt64
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT SUM(shares) FROM funder_deposits WHERE project_id = ?", int64(projectID))
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("sum funder shares: %w", err)
	}
	return uint64(total.Int64), nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func funderShares(ctx context.Context, q querier, projectID uint64, funder vault.AccountID) (uint64, error) {
	var shares int64
	row := q.QueryRowContext(ctx,
		"SELECT shares FROM funder_deposits WHERE project_id = ? AND funder = ?",
		int64(projectID), string(funder))
	if err := row.Scan(&shares); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("funder shares: %w", err)
	}
	return uint64(shares), nil
}

type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) CreateProject(ctx context.Context, project domain.Project) (uint64, error) {
	result, err := t.tx.ExecContext(ctx,
		`INSERT INTO projects (owner, asset, goal_amount, deposited_shares, start_at, end_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(project.Owner),
		string(project.Asset),
		int64(project.Goal),
		int64(project.DepositedShares),
		toMillis(project.Start),
		toMillis(project.End),
		toMillis(project.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("project id: %w", err)
	}
	return uint64(id), nil
}

func (t *sqliteTx) GetProject(ctx context.Context, id uint64) (domain.Project, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", int64(id))
	return scanProject(row)
}

func (t *sqliteTx) FunderShares(ctx context.Context, projectID uint64, funder vault.AccountID) (uint64, error) {
	return funderShares(ctx, t.tx, projectID, funder)
}

func (t *sqliteTx) AddDeposit(ctx context.Context, projectID uint64, funder vault.AccountID, shares uint64) error {
	result, err := t.tx.ExecContext(ctx,
		"UPDATE projects SET deposited_shares = deposited_shares + ? WHERE id = ?",
		int64(shares), int64(projectID))
	if err != nil {
		return fmt.Errorf("add project shares: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("add project shares result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO funder_deposits (project_id, funder, shares) VALUES (?, ?, ?)
		 ON CONFLICT(project_id, funder) DO UPDATE SET shares = shares + excluded.shares`,
		int64(projectID), string(funder), int64(shares))
	if err != nil {
		return fmt.Errorf("add funder shares: %w", err)
	}
	return nil
}

func (t *sqliteTx) SubtractDeposit(ctx context.Context, projectID uint64, funder vault.AccountID, shares uint64) error {
	result, err := t.tx.ExecContext(ctx,
		"UPDATE funder_deposits SET shares = shares - ? WHERE project_id = ? AND funder = ? AND shares >= ?",
		int64(shares), int64(projectID), string(funder), int64(shares))
	if err != nil {
		return fmt.Errorf("subtract funder shares: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("subtract funder shares result: %w", err)
	}
	if affected == 0 {
		return storage.ErrInsufficientShares
	}

	result, err = t.tx.ExecContext(ctx,
		"UPDATE projects SET deposited_shares = deposited_shares - ? WHERE id = ? AND deposited_shares >= ?",
		int64(shares), int64(projectID), int64(shares))
	if err != nil {
		return fmt.Errorf("subtract project shares: %w", err)
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("subtract project shares result: %w", err)
	}
	if affected == 0 {
		return storage.ErrInsufficientShares
	}
	return nil
}

func (t *sqliteTx) ZeroDepositedShares(ctx context.Context, projectID uint64) error {
	result, err := t.tx.ExecContext(ctx,
		"UPDATE projects SET deposited_shares = 0 WHERE id = ?", int64(projectID))
	if err != nil {
		return fmt.Errorf("zero project shares: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("zero project shares result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}
