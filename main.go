package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/karthi209/notkarthik/internal/client"
	"github.com/karthi209/notkarthik/internal/config"
	"github.com/karthi209/notkarthik/internal/db"
	"github.com/karthi209/notkarthik/internal/handlers"
	"github.com/karthi209/notkarthik/internal/logger"
	"github.com/karthi209/notkarthik/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New("notkarthik", cfg.LogLevel)
	zlog.Logger = log
	zerolog.DefaultContextLogger = &log

	ctx := context.Background()
	store, err := db.NewStore(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create tables")
	}

	routerCfg := handlers.RouterConfig{
		Posts:                store,
		Logs:                 store,
		Keys:                 store,
		Tweets:               store,
		Health:               store,
		Logger:               log,
		CorsAllowedOrigins:   cfg.CorsAllowedOrigins,
		BlogWritesRequireKey: cfg.BlogWritesRequireKey,
	}
	if cfg.WebEnabled {
		site, err := web.New(web.Config{
			API:           client.New(cfg.APIBaseURL),
			SessionSecret: []byte(cfg.SessionSecret),
			AdminUsername: cfg.AdminUsername,
			AdminPassword: cfg.AdminPassword,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build web frontend")
		}
		routerCfg.Web = site
		log.Info().Str("api", cfg.APIBaseURL).Msg("web frontend enabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlers.NewRouter(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
