package handlers

import (
	"errors"
	"net/http"

	"github.com/karthi209/notkarthik/internal/middleware"
	"github.com/karthi209/notkarthik/internal/models"
)

type APIKeysHandler struct {
	store KeyStore
}

func NewAPIKeysHandler(store KeyStore) *APIKeysHandler {
	return &APIKeysHandler{store: store}
}

type IssueKeyRequest struct {
	Name string `json:"name"`
}

type IssueKeyResponse struct {
	APIKey  string `json:"api_key"`
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Warning string `json:"warning"`
}

// Issue creates a key. The very first key can be issued without one;
// after that a valid key is required.
func (h *APIKeysHandler) Issue(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountAPIKeys(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "", "Error creating API key")
		return
	}
	bootstrap := count == 0
	if !bootstrap {
		if r = middleware.Authenticate(h.store, w, r); r == nil {
			return
		}
	}

	var req IssueKeyRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	var (
		secret string
		key    *models.APIKey
	)
	if bootstrap {
		secret, key, err = h.store.BootstrapAPIKey(r.Context(), req.Name)
		if errors.Is(err, models.ErrUnauthenticated) {
			// Another request issued the first key in the meantime.
			if r = middleware.Authenticate(h.store, w, r); r == nil {
				return
			}
			secret, key, err = h.store.IssueAPIKey(r.Context(), req.Name)
		}
	} else {
		secret, key, err = h.store.IssueAPIKey(r.Context(), req.Name)
	}
	if err != nil {
		respondStoreError(w, r, err, "", "Error creating API key")
		return
	}
	respondJSON(w, http.StatusCreated, IssueKeyResponse{
		APIKey:  secret,
		ID:      key.ID,
		Name:    key.Name,
		Message: "Save this key securely. It will not be shown again.",
		Warning: "This is your only chance to see this key!",
	})
}

func (h *APIKeysHandler) List(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.ListAPIKeys(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "", "Error fetching API keys")
		return
	}
	respondJSON(w, http.StatusOK, keys)
}

func (h *APIKeysHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid API key ID format")
		return
	}
	if err := h.store.RevokeAPIKey(r.Context(), id); err != nil {
		respondStoreError(w, r, err, "API key not found", "Error deleting API key")
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: "API key deleted successfully"})
}
