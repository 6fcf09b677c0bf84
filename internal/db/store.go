package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karthi209/notkarthik/internal/models"
)

var errNotInitialized = errors.New("db not initialized")

// Store is the single handle to the relational store. It is built once at
// process start and passed to whoever needs it.
type Store struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying pgxpool.Pool
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func NewStore(ctx context.Context, databaseURL string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errNotInitialized
	}
	return s.pool.Ping(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS blogs (
	    id SERIAL PRIMARY KEY,
	    title VARCHAR(255) NOT NULL,
	    content TEXT NOT NULL,
	    category VARCHAR(100) NOT NULL,
	    date TIMESTAMPTZ NOT NULL DEFAULT now(),
	    tags TEXT[],
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS logs (
	    id SERIAL PRIMARY KEY,
	    title VARCHAR(255) NOT NULL,
	    type VARCHAR(50) NOT NULL CHECK (type IN ('games', 'movies', 'series', 'books')),
	    content TEXT,
	    rating VARCHAR(50),
	    status VARCHAR(100),
	    completion VARCHAR(100),
	    author VARCHAR(255),
	    date TIMESTAMPTZ NOT NULL DEFAULT now(),
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
	    id SERIAL PRIMARY KEY,
	    key_hash VARCHAR(255) NOT NULL UNIQUE,
	    name VARCHAR(100),
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    last_used_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS featured_tweets (
	    id SERIAL PRIMARY KEY,
	    position SMALLINT NOT NULL,
	    url TEXT NOT NULL,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_featured_tweets_position ON featured_tweets(position)`,
	`CREATE INDEX IF NOT EXISTS idx_blogs_category ON blogs(category)`,
	`CREATE INDEX IF NOT EXISTS idx_blogs_date ON blogs(date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_type ON logs(type)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_date ON logs(date DESC)`,
}

// Migrate creates the tables and indexes if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if s.pool == nil {
		return errNotInitialized
	}
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	for _, stmt := range schema {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// writeErr wraps a failed insert or update. Rows the schema rejects
// (oversized values, CHECK violations) are the caller's fault and surface
// as validation errors; everything else stays an infrastructure error.
func writeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "22001":
			return models.Invalid("value too long")
		case "23514":
			return models.Invalid("value violates a constraint")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
