package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/karthi209/notkarthik/internal/metrics"
	"github.com/karthi209/notkarthik/internal/models"
)

// HeaderAPIKey carries the plaintext key on write requests. The api_key
// query parameter is accepted as a fallback.
const HeaderAPIKey = "X-API-Key"

type KeyVerifier interface {
	VerifyAPIKey(ctx context.Context, secret string) (*models.APIKey, error)
}

type contextKey string

const apiKeyContextKey contextKey = "apiKey"

// PresentedKey returns the key a request carries, if any.
func PresentedKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(HeaderAPIKey)); key != "" {
		return key
	}
	return strings.TrimSpace(r.URL.Query().Get("api_key"))
}

// APIKeyFromContext returns the credential that authenticated the request.
func APIKeyFromContext(ctx context.Context) (*models.APIKey, bool) {
	key, ok := ctx.Value(apiKeyContextKey).(*models.APIKey)
	return key, ok && key != nil
}

// Authenticate verifies the presented key. It writes the 401/500 response
// itself and returns nil when the request must stop.
func Authenticate(v KeyVerifier, w http.ResponseWriter, r *http.Request) *http.Request {
	presented := PresentedKey(r)
	if presented == "" {
		metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
		writeError(w, http.StatusUnauthorized, "API key required")
		return nil
	}

	key, err := v.VerifyAPIKey(r.Context(), presented)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			metrics.AuthFailuresTotal.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusUnauthorized, "Invalid API key")
			return nil
		}
		metrics.AuthFailuresTotal.WithLabelValues("error").Inc()
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("api key verification failed")
		writeError(w, http.StatusInternalServerError, "Authentication error")
		return nil
	}

	zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Int64("api_key_id", key.ID)
	})
	return r.WithContext(context.WithValue(r.Context(), apiKeyContextKey, key))
}

// APIKey rejects requests that do not present a valid key.
func APIKey(v KeyVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r = Authenticate(v, w, r); r == nil {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
