package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/karthi209/notkarthik/internal/metrics"
	"github.com/karthi209/notkarthik/internal/middleware"
)

type RouterConfig struct {
	Posts  PostStore
	Logs   LogStore
	Keys   KeyStore
	Tweets TweetStore
	Health Pinger

	Logger             zerolog.Logger
	CorsAllowedOrigins []string
	// BlogWritesRequireKey puts post writes behind the API key check.
	BlogWritesRequireKey bool
	// Web, when set, serves everything outside /api and /health.
	Web http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(metrics.Instrument)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.HeaderAPIKey},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.Get("/health", Health(cfg.Health))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	requireKey := middleware.APIKey(cfg.Keys)
	posts := NewPostsHandler(cfg.Posts)
	logs := NewLogsHandler(cfg.Logs)
	keys := NewAPIKeysHandler(cfg.Keys)
	tweets := NewFeaturedTweetsHandler(cfg.Tweets)

	r.Route("/api", func(r chi.Router) {
		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Get("/categories", posts.Categories)
			r.Get("/archives", posts.Archives)
			r.Get("/category/{category}", posts.ListByCategory)
			r.Get("/{id}", posts.Get)

			r.Group(func(r chi.Router) {
				if cfg.BlogWritesRequireKey {
					r.Use(requireKey)
				}
				r.Post("/", posts.Create)
				r.Put("/{id}", posts.Update)
				r.Delete("/{id}", posts.Delete)
			})
			r.With(requireKey).Post("/create", posts.CreateWrapped)
		})

		r.Route("/logs", func(r chi.Router) {
			r.Get("/", logs.List)
			r.Get("/entry/{id}", logs.Get)
			r.Get("/{kind}", logs.ListByKind)

			r.Group(func(r chi.Router) {
				r.Use(requireKey)
				r.Post("/", logs.Create)
				r.Put("/{id}", logs.Update)
				r.Delete("/{id}", logs.Delete)
			})
		})

		r.Route("/admin/api-keys", func(r chi.Router) {
			r.Post("/", keys.Issue)
			r.With(requireKey).Get("/", keys.List)
			r.With(requireKey).Delete("/{id}", keys.Revoke)
		})

		r.Route("/featured-tweets", func(r chi.Router) {
			r.Get("/", tweets.List)
			r.With(requireKey).Put("/", tweets.Replace)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, http.StatusNotFound, "route not found")
		})
	})

	if cfg.Web != nil {
		r.Mount("/", cfg.Web)
	}
	return r
}
