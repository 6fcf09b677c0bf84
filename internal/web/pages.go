package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/karthi209/notkarthik/internal/client"
	"github.com/karthi209/notkarthik/internal/models"
)

type kindSection struct {
	Kind    models.LogKind
	Entries []models.LogEntry
}

// home degrades section by section: a failing call leaves its section
// empty instead of failing the page.
func (s *Site) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := zerolog.Ctx(ctx)

	posts, err := s.api.ListPosts(ctx, client.PostQuery{})
	if err != nil {
		log.Warn().Err(err).Msg("home: posts unavailable")
	}
	if len(posts) > recentPosts {
		posts = posts[:recentPosts]
	}

	tweets, err := s.api.FeaturedTweets(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("home: featured tweets unavailable")
	}

	sections := make([]kindSection, 0, len(models.LogKinds))
	for _, kind := range models.LogKinds {
		entries, err := s.api.ListLogs(ctx, kind)
		if err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Msg("home: logs unavailable")
		}
		if len(entries) > recentLogs {
			entries = entries[:recentLogs]
		}
		sections = append(sections, kindSection{Kind: kind, Entries: entries})
	}

	s.render(w, r, http.StatusOK, "home", "Home", map[string]interface{}{
		"Posts":    posts,
		"Tweets":   tweets,
		"Sections": sections,
	})
}

func (s *Site) blogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	query := client.PostQuery{
		Category: q.Get("category"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
	}
	// An archive link selects one month, e.g. archive=2024-03.
	if archive := q.Get("archive"); archive != "" {
		query.StartDate, query.EndDate = archive, archive
	}

	posts, err := s.api.ListPosts(ctx, query)
	if err != nil {
		s.renderAPIError(w, r, err, "posts")
		return
	}
	categories, err := s.api.Categories(ctx)
	if err != nil {
		s.renderAPIError(w, r, err, "categories")
		return
	}
	archives, err := s.api.Archives(ctx)
	if err != nil {
		s.renderAPIError(w, r, err, "archives")
		return
	}

	s.render(w, r, http.StatusOK, "blogs", "Blog", map[string]interface{}{
		"Posts":      posts,
		"Categories": categories,
		"Archives":   archives,
		"Query":      query,
		"Archive":    q.Get("archive"),
	})
}

func (s *Site) post(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.renderError(w, r, http.StatusNotFound, "Blog post not found")
		return
	}
	post, err := s.api.GetPost(r.Context(), id)
	if err != nil {
		s.renderAPIError(w, r, err, "Blog post")
		return
	}
	s.render(w, r, http.StatusOK, "post", post.Title, post)
}

func (s *Site) logs(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseLogKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Unknown log type")
		return
	}
	entries, err := s.api.ListLogs(r.Context(), kind)
	if err != nil {
		s.renderAPIError(w, r, err, "logs")
		return
	}
	s.render(w, r, http.StatusOK, "logs", string(kind), map[string]interface{}{
		"Kind":    kind,
		"Entries": entries,
	})
}

func (s *Site) about(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "about", "About", nil)
}
