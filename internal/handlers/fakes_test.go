package handlers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/karthi209/notkarthik/internal/apikey"
	"github.com/karthi209/notkarthik/internal/models"
)

// memStore is an in-memory stand-in for *db.Store.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	posts    map[int64]models.Post
	logs     map[int64]models.LogEntry
	keys     map[int64]models.APIKey
	tweets   []models.FeaturedTweet
	failWith error

	bootstrapRace func()
}

func newMemStore() *memStore {
	return &memStore{
		posts: make(map[int64]models.Post),
		logs:  make(map[int64]models.LogEntry),
		keys:  make(map[int64]models.APIKey),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) Ping(context.Context) error { return m.failWith }

func (m *memStore) ListPosts(_ context.Context, f models.PostFilter) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	switch f.SortBy {
	case "", "date", "title":
	default:
		return nil, models.Invalid("invalid sort field")
	}
	out := make([]models.Post, 0)
	for _, p := range m.posts {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Start != nil && p.Date.Before(*f.Start) {
			continue
		}
		if f.End != nil && p.Date.After(*f.End) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) GetPost(_ context.Context, id int64) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, models.NotFound("blog post")
	}
	return &p, nil
}

func (m *memStore) CreatePost(_ context.Context, p models.Post) (*models.Post, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	now := time.Now()
	p.ID, p.Date, p.CreatedAt, p.UpdatedAt = m.id(), now, now, now
	if p.Tags == nil {
		p.Tags = []string{}
	}
	m.posts[p.ID] = p
	return &p, nil
}

func (m *memStore) UpdatePost(_ context.Context, id int64, p models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.posts[id]
	if !ok {
		return nil, models.NotFound("blog post")
	}
	p.ID, p.Date, p.CreatedAt, p.UpdatedAt = id, old.Date, old.CreatedAt, time.Now()
	m.posts[id] = p
	return &p, nil
}

func (m *memStore) DeletePost(_ context.Context, id int64) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, models.NotFound("blog post")
	}
	delete(m.posts, id)
	return &p, nil
}

func (m *memStore) ListCategories(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, p := range m.posts {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memStore) ListArchives(context.Context) ([]models.Archive, error) {
	return []models.Archive{{Year: 2024, Month: 5, Count: 2}}, nil
}

func (m *memStore) ListLogs(_ context.Context, kind models.LogKind) ([]models.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.LogEntry, 0)
	for _, e := range m.logs {
		if kind == "" || e.Type == kind {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) GetLog(_ context.Context, id int64) (*models.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.logs[id]
	if !ok {
		return nil, models.NotFound("log")
	}
	return &e, nil
}

func (m *memStore) CreateLog(_ context.Context, e models.LogEntry) (*models.LogEntry, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	e.ID, e.Date, e.CreatedAt, e.UpdatedAt = m.id(), now, now, now
	m.logs[e.ID] = e
	return &e, nil
}

func (m *memStore) UpdateLog(_ context.Context, id int64, e models.LogEntry) (*models.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.logs[id]
	if !ok {
		return nil, models.NotFound("log")
	}
	e.ID, e.Date, e.CreatedAt, e.UpdatedAt = id, old.Date, old.CreatedAt, time.Now()
	m.logs[id] = e
	return &e, nil
}

func (m *memStore) DeleteLog(_ context.Context, id int64) (*models.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.logs[id]
	if !ok {
		return nil, models.NotFound("log")
	}
	delete(m.logs, id)
	return &e, nil
}

func (m *memStore) IssueAPIKey(_ context.Context, name string) (string, *models.APIKey, error) {
	secret, err := apikey.Generate()
	if err != nil {
		return "", nil, err
	}
	if name == "" {
		name = "API Key"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := models.APIKey{ID: m.id(), Name: name, KeyHash: apikey.Hash(secret), CreatedAt: time.Now()}
	m.keys[k.ID] = k
	return secret, &k, nil
}

func (m *memStore) BootstrapAPIKey(ctx context.Context, name string) (string, *models.APIKey, error) {
	m.mu.Lock()
	// bootstrapRace runs under the lock, standing in for a request that
	// issued the first key between the count and this call.
	if m.bootstrapRace != nil {
		m.bootstrapRace()
		m.bootstrapRace = nil
	}
	existing := len(m.keys)
	m.mu.Unlock()
	if existing > 0 {
		return "", nil, models.ErrUnauthenticated
	}
	return m.IssueAPIKey(ctx, name)
}

func (m *memStore) VerifyAPIKey(_ context.Context, secret string) (*models.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for id, k := range m.keys {
		if apikey.Matches(secret, k.KeyHash) {
			now := time.Now()
			k.LastUsedAt = &now
			m.keys[id] = k
			return &k, nil
		}
	}
	return nil, models.ErrUnauthenticated
}

func (m *memStore) ListAPIKeys(context.Context) ([]models.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.APIKey, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) CountAPIKeys(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys), nil
}

func (m *memStore) RevokeAPIKey(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[id]; !ok {
		return models.NotFound("API key")
	}
	delete(m.keys, id)
	return nil
}

func (m *memStore) ListFeaturedTweets(context.Context) ([]models.FeaturedTweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.FeaturedTweet{}, m.tweets...), nil
}

func (m *memStore) ReplaceFeaturedTweets(_ context.Context, urls []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	if len(urls) > models.MaxFeaturedTweets {
		return 0, errors.New("store received more than five urls")
	}
	next := make([]models.FeaturedTweet, len(urls))
	for i, u := range urls {
		next[i] = models.FeaturedTweet{Position: i + 1, URL: u, UpdatedAt: time.Now()}
	}
	m.tweets = next
	return len(next), nil
}
