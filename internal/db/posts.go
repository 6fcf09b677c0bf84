package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/karthi209/notkarthik/internal/models"
)

const postColumns = `
	id,
	title,
	content,
	category,
	COALESCE(tags, '{}'::text[]),
	date,
	created_at,
	updated_at`

// postSortColumns maps accepted sort keys to columns. Sort keys never
// reach the query text any other way.
var postSortColumns = map[string]string{
	"date":       "date",
	"title":      "title",
	"category":   "category",
	"created_at": "created_at",
	"createdAt":  "created_at",
	"updated_at": "updated_at",
	"updatedAt":  "updated_at",
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Category,
		&post.Tags,
		&post.Date,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// postOrderBy resolves a sort key and direction to an ORDER BY clause.
func postOrderBy(sortBy, order string) (string, error) {
	if sortBy == "" {
		sortBy = "date"
	}
	column, ok := postSortColumns[sortBy]
	if !ok {
		return "", models.Invalid(fmt.Sprintf("invalid sort field %q", sortBy))
	}
	direction := "DESC"
	if strings.EqualFold(order, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", column, direction, direction), nil
}

func (s *Store) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}

	orderBy, err := postOrderBy(filter.SortBy, filter.Order)
	if err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Start != nil {
		add("date >= $%d", *filter.Start)
	}
	if filter.End != nil {
		add("date <= $%d", *filter.End)
	}

	query := "SELECT" + postColumns + " FROM blogs"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += orderBy

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	post, err := scanPost(s.pool.QueryRow(ctx, "SELECT"+postColumns+" FROM blogs WHERE id = $1", id))
	if err != nil {
		if noRows(err) {
			return nil, models.NotFound("blog post")
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *Store) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO blogs (title, content, category, tags, date)
		VALUES ($1, $2, $3, $4, now())
		RETURNING` + postColumns

	created, err := scanPost(s.pool.QueryRow(ctx, query, post.Title, post.Content, post.Category, post.Tags))
	if err != nil {
		return nil, writeErr("create post", err)
	}
	return created, nil
}

func (s *Store) UpdatePost(ctx context.Context, id int64, post models.Post) (*models.Post, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE blogs
		SET title = $1, content = $2, category = $3, tags = $4, updated_at = now()
		WHERE id = $5
		RETURNING` + postColumns

	updated, err := scanPost(s.pool.QueryRow(ctx, query, post.Title, post.Content, post.Category, post.Tags, id))
	if err != nil {
		if noRows(err) {
			return nil, models.NotFound("blog post")
		}
		return nil, writeErr("update post", err)
	}
	return updated, nil
}

// DeletePost removes a post and returns the row as it was.
func (s *Store) DeletePost(ctx context.Context, id int64) (*models.Post, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	deleted, err := scanPost(s.pool.QueryRow(ctx, "DELETE FROM blogs WHERE id = $1 RETURNING"+postColumns, id))
	if err != nil {
		if noRows(err) {
			return nil, models.NotFound("blog post")
		}
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return deleted, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	rows, err := s.pool.Query(ctx, "SELECT DISTINCT category FROM blogs ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return categories, nil
}

// ListArchives counts posts per calendar month, newest month first.
func (s *Store) ListArchives(ctx context.Context) ([]models.Archive, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	const query = `
		SELECT
			EXTRACT(YEAR FROM date)::int AS year,
			EXTRACT(MONTH FROM date)::int AS month,
			COUNT(*)::int AS count
		FROM blogs
		GROUP BY 1, 2
		ORDER BY year DESC, month DESC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	defer rows.Close()

	archives := make([]models.Archive, 0)
	for rows.Next() {
		var a models.Archive
		if err := rows.Scan(&a.Year, &a.Month, &a.Count); err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		archives = append(archives, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return archives, nil
}
