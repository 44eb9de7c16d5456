package contact

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists submissions in a local SQLite file. Suits a
// single-instance deployment that wants submissions to survive restarts
// without running a database server.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS contact_submissions (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL,
	message    TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'unread',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contact_submissions_status
	ON contact_submissions (status, created_at DESC);
`

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	// _busy_timeout keeps concurrent admin reads from failing while a
	// submission insert holds the write lock.
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("contact: open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("contact: ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("contact: ensure sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) Save(ctx context.Context, sub *Submission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (id, email, message, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Email, sub.Message, sub.Status, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("contact: insert submission: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]*Submission, error) {
	opts.Normalize()

	var where string
	var args []any
	if opts.Status != "" && opts.Status != "all" {
		where = "WHERE status = ?"
		args = append(args, opts.Status)
	}
	args = append(args, opts.Limit, opts.Offset)

	query := strings.Join([]string{
		`SELECT id, email, message, status, created_at, updated_at FROM contact_submissions`,
		where,
		`ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
	}, " ")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("contact: list submissions: %w", err)
	}
	defer rows.Close()

	subs := []*Submission{}
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Message, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("contact: scan submission: %w", err)
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

func (s *SQLiteStore) MarkRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contact_submissions SET status = ?, updated_at = ? WHERE id = ?`,
		StatusRead, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("contact: mark read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("contact: mark read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
