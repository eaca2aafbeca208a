package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clearops/ticketlens/pkg/models/store"
)

// ErrNotFound reports a lookup for a report ID with no metadata row.
var ErrNotFound = errors.New("report not found")

type Store interface {
	Add(ctx context.Context, r store.Report) error
	Get(ctx context.Context, id string) (*store.Report, error)
	List(ctx context.Context) ([]store.Report, error)
	Delete(ctx context.Context, id string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{db: db}, nil
}

func (s *defaultStore) Add(ctx context.Context, r store.Report) error {
	query := `
		INSERT INTO reports (id, upload_id, filename, kind, path, row_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.UploadID, r.Filename, r.Kind, r.Path, r.RowCount, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *defaultStore) Get(ctx context.Context, id string) (*store.Report, error) {
	query := `
		SELECT id, upload_id, filename, kind, path, row_count, created_at
		FROM reports WHERE id = ?`

	var r store.Report
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.UploadID, &r.Filename, &r.Kind, &r.Path, &r.RowCount, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select report: %w", err)
	}
	return &r, nil
}

func (s *defaultStore) List(ctx context.Context) ([]store.Report, error) {
	query := `
		SELECT id, upload_id, filename, kind, path, row_count, created_at
		FROM reports ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []store.Report
	for rows.Next() {
		var r store.Report
		if err := rows.Scan(&r.ID, &r.UploadID, &r.Filename, &r.Kind, &r.Path, &r.RowCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *defaultStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOlderThan removes metadata rows past the retention cutoff and returns
// the IDs so the caller can drop the matching files.
func (s *defaultStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM reports WHERE created_at < ?`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("select expired reports: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan expired report: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE created_at < ?`, cutoff); err != nil {
			return nil, fmt.Errorf("delete expired reports: %w", err)
		}
	}
	return ids, nil
}
