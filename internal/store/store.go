// Package store is the thin Postgres layer behind analytics, profiles and
// cached news articles. Everything here is read-mostly; the only write-hot
// path is the daily analytics upsert.
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the tables if they don't exist. The schema is small
// enough that versioned migrations would be overhead.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS analytics (
	date               date PRIMARY KEY,
	page_view_count    integer NOT NULL DEFAULT 0,
	article_view_count integer NOT NULL DEFAULT 0,
	search_count       integer NOT NULL DEFAULT 0,
	translation_count  integer NOT NULL DEFAULT 0,
	improve_count      integer NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS profiles (
	id         uuid PRIMARY KEY,
	full_name  text NOT NULL DEFAULT '',
	avatar_url text NOT NULL DEFAULT '',
	role       text NOT NULL DEFAULT 'journalist',
	status     text NOT NULL DEFAULT 'active'
);

CREATE TABLE IF NOT EXISTS news_articles (
	id               uuid PRIMARY KEY,
	title            text NOT NULL,
	content          text NOT NULL,
	publication_date timestamptz NOT NULL,
	category         text NOT NULL DEFAULT ''
);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}
