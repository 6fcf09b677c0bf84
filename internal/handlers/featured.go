package handlers

import (
	"net/http"
	"strings"

	"github.com/karthi209/notkarthik/internal/metrics"
	"github.com/karthi209/notkarthik/internal/models"
)

type FeaturedTweetsHandler struct {
	store TweetStore
}

func NewFeaturedTweetsHandler(store TweetStore) *FeaturedTweetsHandler {
	return &FeaturedTweetsHandler{store: store}
}

type ReplaceTweetsRequest struct {
	URLs []string `json:"urls"`
}

type ReplaceTweetsResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

func (h *FeaturedTweetsHandler) List(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.store.ListFeaturedTweets(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "", "Error fetching featured tweets")
		return
	}
	respondJSON(w, http.StatusOK, tweets)
}

// Replace swaps the whole list. Entries past the fifth are dropped.
func (h *FeaturedTweetsHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceTweetsRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if len(req.URLs) == 0 {
		respondError(w, http.StatusBadRequest, "urls array is required")
		return
	}

	urls := req.URLs
	if len(urls) > models.MaxFeaturedTweets {
		urls = urls[:models.MaxFeaturedTweets]
	}
	cleaned := make([]string, len(urls))
	for i, u := range urls {
		cleaned[i] = strings.TrimSpace(u)
		if cleaned[i] == "" {
			respondError(w, http.StatusBadRequest, "urls must not contain empty entries")
			return
		}
	}

	count, err := h.store.ReplaceFeaturedTweets(r.Context(), cleaned)
	if err != nil {
		metrics.FeaturedReplacementsTotal.WithLabelValues("error").Inc()
		respondStoreError(w, r, err, "", "Error updating featured tweets")
		return
	}
	metrics.FeaturedReplacementsTotal.WithLabelValues("ok").Inc()
	respondJSON(w, http.StatusOK, ReplaceTweetsResponse{Success: true, Count: count})
}
