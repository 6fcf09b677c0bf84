// Package web renders the public site and the admin panel. It reads and
// writes only through the HTTP API; it has no store access of its own.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/karthi209/notkarthik/internal/client"
	"github.com/karthi209/notkarthik/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// API is the slice of the HTTP API the site needs.
type API interface {
	ListPosts(ctx context.Context, q client.PostQuery) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	Categories(ctx context.Context) ([]string, error)
	Archives(ctx context.Context) ([]models.Archive, error)
	ListLogs(ctx context.Context, kind models.LogKind) ([]models.LogEntry, error)
	FeaturedTweets(ctx context.Context) ([]models.FeaturedTweet, error)
	CreatePost(ctx context.Context, key string, in client.PostInput) (*models.Post, error)
	ReplaceFeaturedTweets(ctx context.Context, key string, urls []string) (int, error)
}

type Config struct {
	API           API
	SessionSecret []byte
	AdminUsername string
	AdminPassword string
	// Now is overridable for tests.
	Now func() time.Time
}

const (
	recentPosts = 5
	recentLogs  = 4
)

type Site struct {
	api      API
	sessions *sessions
	admin    credentials
	pages    map[string]*template.Template
	md       goldmark.Markdown
	router   chi.Router
}

func New(cfg Config) (*Site, error) {
	if cfg.API == nil {
		return nil, errors.New("web: API is required")
	}
	if len(cfg.SessionSecret) == 0 {
		return nil, errors.New("web: session secret is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &Site{
		api:      cfg.API,
		sessions: &sessions{secret: cfg.SessionSecret, now: now},
		admin:    credentials{username: cfg.AdminUsername, password: cfg.AdminPassword},
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	pages, err := s.parseTemplates()
	if err != nil {
		return nil, err
	}
	s.pages = pages

	r := chi.NewRouter()
	r.Get("/", s.home)
	r.Get("/blogs", s.blogs)
	r.Get("/blog/{id}", s.post)
	r.Get("/logs/{kind}", s.logs)
	r.Get("/about", s.about)
	r.Route("/admin", func(r chi.Router) {
		r.Get("/", s.adminPage)
		r.Post("/login", s.adminLogin)
		r.Post("/logout", s.adminLogout)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/key", s.adminSaveKey)
			r.Post("/posts", s.adminCreatePost)
			r.Post("/tweets", s.adminReplaceTweets)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusNotFound, "Page not found")
	})
	s.router = r
	return s, nil
}

func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

var pageNames = []string{"home", "blogs", "post", "logs", "about", "admin", "login", "error"}

func (s *Site) parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"markdown": s.renderMarkdown,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"month": func(m int) string { return time.Month(m).String() },
		"title": func(k models.LogKind) string {
			v := string(k)
			if v == "" {
				return v
			}
			return strings.ToUpper(v[:1]) + v[1:]
		},
		"kinds": func() []models.LogKind { return models.LogKinds },
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (s *Site) renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	// goldmark drops raw HTML unless configured otherwise.
	return template.HTML(buf.String())
}

type page struct {
	Title   string
	Admin   bool
	Flash   string
	Content interface{}
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, name, title string, content interface{}) {
	_, signedIn := s.sessions.read(r)
	data := page{
		Title:   title,
		Admin:   signedIn,
		Flash:   r.URL.Query().Get("status"),
		Content: content,
	}
	var buf bytes.Buffer
	if err := s.pages[name].Execute(&buf, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Site) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.render(w, r, status, "error", http.StatusText(status), map[string]interface{}{
		"Status":  status,
		"Message": message,
	})
}

// renderAPIError turns an API failure into a page, keeping 404s as 404s.
func (s *Site) renderAPIError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case client.IsStatus(err, http.StatusNotFound):
		s.renderError(w, r, http.StatusNotFound, what+" not found")
	case client.IsStatus(err, http.StatusBadRequest):
		s.renderError(w, r, http.StatusBadRequest, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("api call failed")
		s.renderError(w, r, http.StatusBadGateway, "Could not load "+what)
	}
}
