package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/karthi209/notkarthik/internal/client"
	"github.com/karthi209/notkarthik/internal/models"
)

func (s *Site) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.sessions.read(r); !ok {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func redirectStatus(w http.ResponseWriter, r *http.Request, status string) {
	http.Redirect(w, r, "/admin?status="+url.QueryEscape(status), http.StatusSeeOther)
}

func (s *Site) adminPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.read(r)
	if !ok {
		s.render(w, r, http.StatusOK, "login", "Admin", nil)
		return
	}

	tweets, err := s.api.FeaturedTweets(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("admin: featured tweets unavailable")
	}
	urls := make([]string, len(tweets))
	for i, t := range tweets {
		urls[i] = t.URL
	}

	s.render(w, r, http.StatusOK, "admin", "Admin", map[string]interface{}{
		"Username": sess.Username,
		"HasKey":   sess.APIKey != "",
		"Tweets":   strings.Join(urls, "\n"),
		"Max":      models.MaxFeaturedTweets,
	})
}

func (s *Site) adminLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	if !s.admin.match(username, r.PostForm.Get("password")) {
		s.render(w, r, http.StatusUnauthorized, "login", "Admin", map[string]interface{}{
			"Error": "Invalid username or password",
		})
		return
	}
	if err := s.sessions.write(w, session{Username: username}); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("admin: session write failed")
		s.renderError(w, r, http.StatusInternalServerError, "could not start session")
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Site) adminLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.clear(w)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Site) adminSaveKey(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.sessions.read(r)
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	sess.APIKey = strings.TrimSpace(r.PostForm.Get("api_key"))
	if err := s.sessions.write(w, sess); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("admin: session write failed")
		s.renderError(w, r, http.StatusInternalServerError, "could not save key")
		return
	}
	redirectStatus(w, r, "API key saved")
}

func (s *Site) adminCreatePost(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.sessions.read(r)
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "invalid form")
		return
	}

	var tags []string
	for _, tag := range strings.Split(r.PostForm.Get("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	post, err := s.api.CreatePost(r.Context(), sess.APIKey, client.PostInput{
		Title:    strings.TrimSpace(r.PostForm.Get("title")),
		Content:  r.PostForm.Get("content"),
		Category: strings.TrimSpace(r.PostForm.Get("category")),
		Tags:     tags,
	})
	if err != nil {
		redirectStatus(w, r, "Create failed: "+err.Error())
		return
	}
	redirectStatus(w, r, "Published \""+post.Title+"\"")
}

func (s *Site) adminReplaceTweets(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.sessions.read(r)
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "invalid form")
		return
	}

	var urls []string
	for _, line := range strings.Split(r.PostForm.Get("urls"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}
	count, err := s.api.ReplaceFeaturedTweets(r.Context(), sess.APIKey, urls)
	if err != nil {
		redirectStatus(w, r, "Update failed: "+err.Error())
		return
	}
	redirectStatus(w, r, "Featured tweets updated ("+strconv.Itoa(count)+")")
}
