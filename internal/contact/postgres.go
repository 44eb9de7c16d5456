package contact

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists submissions in PostgreSQL via a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS contact_submissions (
	id         UUID PRIMARY KEY,
	email      TEXT NOT NULL,
	message    TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'unread',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contact_submissions_status
	ON contact_submissions (status, created_at DESC);
`

// NewPostgresStore connects to uri and ensures the schema exists.
func NewPostgresStore(ctx context.Context, uri string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("contact: parse postgres uri: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("contact: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("contact: ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("contact: ensure postgres schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) Save(ctx context.Context, sub *Submission) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO contact_submissions (id, email, message, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sub.ID, sub.Email, sub.Message, sub.Status, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("contact: insert submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, opts ListOptions) ([]*Submission, error) {
	opts.Normalize()

	var args []any
	where := ""
	if opts.Status != "" && opts.Status != "all" {
		args = append(args, opts.Status)
		where = "WHERE status = $1"
	}
	limitArg := "$" + strconv.Itoa(len(args)+1)
	offsetArg := "$" + strconv.Itoa(len(args)+2)
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT id, email, message, status, created_at, updated_at
	          FROM contact_submissions ` + where + `
	          ORDER BY created_at DESC, id DESC
	          LIMIT ` + limitArg + ` OFFSET ` + offsetArg

	rows, err := s.pool.Query(ctx, query, args...)
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

func (s *PostgresStore) MarkRead(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE contact_submissions SET status = $1, updated_at = $2 WHERE id = $3`,
		StatusRead, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("contact: mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
