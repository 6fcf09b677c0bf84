package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/karthi209/notkarthik/internal/models"
)

func (s *Store) ListFeaturedTweets(ctx context.Context) ([]models.FeaturedTweet, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	rows, err := s.pool.Query(ctx, "SELECT position, url, updated_at FROM featured_tweets ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("list featured tweets: %w", err)
	}
	defer rows.Close()

	tweets := make([]models.FeaturedTweet, 0, models.MaxFeaturedTweets)
	for rows.Next() {
		var t models.FeaturedTweet
		if err := rows.Scan(&t.Position, &t.URL, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan featured tweet: %w", err)
		}
		tweets = append(tweets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tweets, nil
}

// ReplaceFeaturedTweets swaps the whole list for urls (first
// MaxFeaturedTweets only) at positions 1..n in a single transaction.
// Readers see either the previous list or the new one; on any failure the
// previous list is left untouched. The table lock serialises concurrent
// replacements without blocking plain reads.
func (s *Store) ReplaceFeaturedTweets(ctx context.Context, urls []string) (int, error) {
	if s.pool == nil {
		return 0, errNotInitialized
	}
	if len(urls) > models.MaxFeaturedTweets {
		urls = urls[:models.MaxFeaturedTweets]
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return 0, fmt.Errorf("begin featured tweets tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "LOCK TABLE featured_tweets IN EXCLUSIVE MODE"); err != nil {
		return 0, fmt.Errorf("lock featured tweets: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM featured_tweets"); err != nil {
		return 0, fmt.Errorf("clear featured tweets: %w", err)
	}

	if len(urls) > 0 {
		batch := &pgx.Batch{}
		for i, u := range urls {
			batch.Queue(
				"INSERT INTO featured_tweets (position, url, updated_at) VALUES ($1, $2, now())",
				i+1, u,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, fmt.Errorf("insert featured tweets: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit featured tweets: %w", err)
	}
	return len(urls), nil
}
