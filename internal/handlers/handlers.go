package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/karthi209/notkarthik/internal/middleware"
	"github.com/karthi209/notkarthik/internal/models"
)

// maxBodyBytes leaves room for long markdown posts.
const maxBodyBytes = 10 << 20

type PostStore interface {
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, post models.Post) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) (*models.Post, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListArchives(ctx context.Context) ([]models.Archive, error)
}

type LogStore interface {
	ListLogs(ctx context.Context, kind models.LogKind) ([]models.LogEntry, error)
	GetLog(ctx context.Context, id int64) (*models.LogEntry, error)
	CreateLog(ctx context.Context, entry models.LogEntry) (*models.LogEntry, error)
	UpdateLog(ctx context.Context, id int64, entry models.LogEntry) (*models.LogEntry, error)
	DeleteLog(ctx context.Context, id int64) (*models.LogEntry, error)
}

type KeyStore interface {
	middleware.KeyVerifier
	IssueAPIKey(ctx context.Context, name string) (string, *models.APIKey, error)
	BootstrapAPIKey(ctx context.Context, name string) (string, *models.APIKey, error)
	ListAPIKeys(ctx context.Context) ([]models.APIKey, error)
	CountAPIKeys(ctx context.Context) (int, error)
	RevokeAPIKey(ctx context.Context, id int64) error
}

type TweetStore interface {
	ListFeaturedTweets(ctx context.Context) ([]models.FeaturedTweet, error)
	ReplaceFeaturedTweets(ctx context.Context, urls []string) (int, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    status,
		Message: message,
	})
}

// respondStoreError maps the store error taxonomy onto status codes.
// Anything unrecognised is an infrastructure failure and gets logged.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error, notFound, internal string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		respondError(w, http.StatusBadRequest, models.Message(err, "invalid request"))
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, notFound)
	case errors.Is(err, models.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "Invalid API key")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(internal)
		respondError(w, http.StatusInternalServerError, internal)
	}
}

// decodeBody reads a JSON request body into dst. An empty body leaves dst
// untouched when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		respondError(w, http.StatusBadRequest, "invalid body")
		return false
	}
	return true
}

// parseID reads a positive integer path parameter.
func parseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Health reports whether the store answers.
func Health(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.Ping(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health check failed")
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
