// Package client is a typed HTTP client for the blog API. The web frontend
// and blogctl both go through it.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/karthi209/notkarthik/internal/models"
)

const headerAPIKey = "X-API-Key"

type Client struct {
	http *resty.Client
}

func New(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)
	return &Client{http: c}
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: HTTP %d", e.Status)
	}
	return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type errorBody struct {
	Message string `json:"message"`
}

type PostQuery struct {
	Category  string
	StartDate string
	EndDate   string
	SortBy    string
	Order     string
}

func (q PostQuery) params() map[string]string {
	out := map[string]string{}
	for k, v := range map[string]string{
		"category":  q.Category,
		"startDate": q.StartDate,
		"endDate":   q.EndDate,
		"sortBy":    q.SortBy,
		"order":     q.Order,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

type PostInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

type IssuedKey struct {
	APIKey  string `json:"api_key"`
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (c *Client) request(ctx context.Context, key string) *resty.Request {
	req := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if key != "" {
		req.SetHeader(headerAPIKey, key)
	}
	return req
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("api request: %w", err)
	}
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode()}
		if body, ok := resp.Error().(*errorBody); ok {
			apiErr.Message = body.Message
		}
		return apiErr
	}
	return nil
}

func (c *Client) ListPosts(ctx context.Context, q PostQuery) ([]models.Post, error) {
	var out []models.Post
	err := check(c.request(ctx, "").SetQueryParams(q.params()).SetResult(&out).Get("/api/blogs"))
	return out, err
}

func (c *Client) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var out models.Post
	if err := check(c.request(ctx, "").SetResult(&out).Get("/api/blogs/" + strconv.FormatInt(id, 10))); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := check(c.request(ctx, "").SetResult(&out).Get("/api/blogs/categories"))
	return out, err
}

func (c *Client) Archives(ctx context.Context) ([]models.Archive, error) {
	var out []models.Archive
	err := check(c.request(ctx, "").SetResult(&out).Get("/api/blogs/archives"))
	return out, err
}

// CreatePost publishes a post through the key-gated /create route.
func (c *Client) CreatePost(ctx context.Context, key string, in PostInput) (*models.Post, error) {
	var out struct {
		Blog *models.Post `json:"blog"`
	}
	if err := check(c.request(ctx, key).SetBody(in).SetResult(&out).Post("/api/blogs/create")); err != nil {
		return nil, err
	}
	if out.Blog == nil {
		return nil, fmt.Errorf("api: create post: empty response")
	}
	return out.Blog, nil
}

// ListLogs lists entries of one kind, or all entries when kind is empty.
func (c *Client) ListLogs(ctx context.Context, kind models.LogKind) ([]models.LogEntry, error) {
	path := "/api/logs"
	if kind != "" {
		path += "/" + string(kind)
	}
	var out []models.LogEntry
	err := check(c.request(ctx, "").SetResult(&out).Get(path))
	return out, err
}

func (c *Client) FeaturedTweets(ctx context.Context) ([]models.FeaturedTweet, error) {
	var out []models.FeaturedTweet
	err := check(c.request(ctx, "").SetResult(&out).Get("/api/featured-tweets"))
	return out, err
}

func (c *Client) ReplaceFeaturedTweets(ctx context.Context, key string, urls []string) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	body := map[string][]string{"urls": urls}
	if err := check(c.request(ctx, key).SetBody(body).SetResult(&out).Put("/api/featured-tweets")); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) IssueAPIKey(ctx context.Context, key, name string) (*IssuedKey, error) {
	var out IssuedKey
	body := map[string]string{"name": name}
	if err := check(c.request(ctx, key).SetBody(body).SetResult(&out).Post("/api/admin/api-keys")); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAPIKeys(ctx context.Context, key string) ([]models.APIKey, error) {
	var out []models.APIKey
	err := check(c.request(ctx, key).SetResult(&out).Get("/api/admin/api-keys"))
	return out, err
}

func (c *Client) RevokeAPIKey(ctx context.Context, key string, id int64) error {
	return check(c.request(ctx, key).Delete("/api/admin/api-keys/" + strconv.FormatInt(id, 10)))
}

// Ping checks that the API answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("api request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return &APIError{Status: resp.StatusCode()}
	}
	return nil
}
