package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/karthi209/notkarthik/internal/apikey"
	"github.com/karthi209/notkarthik/internal/models"
)

const defaultKeyName = "API Key"

const apiKeyColumns = `id, COALESCE(name, ''), key_hash, created_at, last_used_at`

func scanAPIKey(row rowScanner) (*models.APIKey, error) {
	var key models.APIKey
	if err := row.Scan(&key.ID, &key.Name, &key.KeyHash, &key.CreatedAt, &key.LastUsedAt); err != nil {
		return nil, err
	}
	return &key, nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertAPIKey(ctx context.Context, q rowQuerier, name string) (string, *models.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultKeyName
	}

	secret, err := apikey.Generate()
	if err != nil {
		return "", nil, err
	}

	key, err := scanAPIKey(q.QueryRow(ctx,
		"INSERT INTO api_keys (key_hash, name) VALUES ($1, $2) RETURNING "+apiKeyColumns,
		apikey.Hash(secret), name,
	))
	if err != nil {
		return "", nil, fmt.Errorf("issue api key: %w", err)
	}
	return secret, key, nil
}

// IssueAPIKey creates a credential and returns its plaintext secret. The
// secret is not recoverable afterwards.
func (s *Store) IssueAPIKey(ctx context.Context, name string) (string, *models.APIKey, error) {
	if s.pool == nil {
		return "", nil, errNotInitialized
	}
	return insertAPIKey(ctx, s.pool, name)
}

// BootstrapAPIKey issues the first credential, and only the first. The
// table lock makes the emptiness check and the insert one step, so of
// several concurrent callers exactly one succeeds; the others get
// models.ErrUnauthenticated.
func (s *Store) BootstrapAPIKey(ctx context.Context, name string) (string, *models.APIKey, error) {
	if s.pool == nil {
		return "", nil, errNotInitialized
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return "", nil, fmt.Errorf("begin bootstrap tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "LOCK TABLE api_keys IN EXCLUSIVE MODE"); err != nil {
		return "", nil, fmt.Errorf("lock api keys: %w", err)
	}
	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM api_keys)").Scan(&exists); err != nil {
		return "", nil, fmt.Errorf("check api keys: %w", err)
	}
	if exists {
		return "", nil, models.ErrUnauthenticated
	}

	secret, key, err := insertAPIKey(ctx, tx, name)
	if err != nil {
		return "", nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", nil, fmt.Errorf("commit bootstrap tx: %w", err)
	}
	return secret, key, nil
}

// VerifyAPIKey resolves a presented secret to its credential and stamps
// last_used_at. Unknown or empty secrets yield models.ErrUnauthenticated.
func (s *Store) VerifyAPIKey(ctx context.Context, secret string) (*models.APIKey, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	if secret == "" {
		return nil, models.ErrUnauthenticated
	}

	key, err := scanAPIKey(s.pool.QueryRow(ctx,
		"UPDATE api_keys SET last_used_at = now() WHERE key_hash = $1 RETURNING "+apiKeyColumns,
		apikey.Hash(secret),
	))
	if err != nil {
		if noRows(err) {
			return nil, models.ErrUnauthenticated
		}
		return nil, fmt.Errorf("verify api key: %w", err)
	}
	if !apikey.Matches(secret, key.KeyHash) {
		return nil, models.ErrUnauthenticated
	}
	return key, nil
}

func (s *Store) ListAPIKeys(ctx context.Context) ([]models.APIKey, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	rows, err := s.pool.Query(ctx, "SELECT "+apiKeyColumns+" FROM api_keys ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	keys := make([]models.APIKey, 0)
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, *key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return keys, nil
}

func (s *Store) CountAPIKeys(ctx context.Context) (int, error) {
	if s.pool == nil {
		return 0, errNotInitialized
	}
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM api_keys").Scan(&n); err != nil {
		return 0, fmt.Errorf("count api keys: %w", err)
	}
	return n, nil
}

func (s *Store) RevokeAPIKey(ctx context.Context, id int64) error {
	if s.pool == nil {
		return errNotInitialized
	}
	tag, err := s.pool.Exec(ctx, "DELETE FROM api_keys WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound("API key")
	}
	return nil
}
