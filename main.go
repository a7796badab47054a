package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/birdgotwit-be/internal/api"
	"github.com/isdelr/birdgotwit-be/internal/auth"
	"github.com/isdelr/birdgotwit-be/internal/config"
	"github.com/isdelr/birdgotwit-be/internal/database"
	"github.com/isdelr/birdgotwit-be/internal/identity"
	"github.com/isdelr/birdgotwit-be/internal/logger"
	"github.com/isdelr/birdgotwit-be/internal/refresh"
	"github.com/isdelr/birdgotwit-be/internal/services"
	"github.com/isdelr/birdgotwit-be/internal/store"
	"github.com/isdelr/birdgotwit-be/internal/views"
	"github.com/isdelr/birdgotwit-be/internal/websocket"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up the post store
	postStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer closeStore()

	// Set up the identity directory
	directory, err := openDirectory(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize identity directory")
	}

	// Set up session verification
	var verifier auth.Verifier
	if cfg.OIDCIssuer != "" {
		verifier, err = auth.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			log.Fatal().Err(err).Str("issuer", cfg.OIDCIssuer).Msg("Failed to initialize OIDC verifier")
		}
	} else {
		verifier = auth.NewHMACVerifier(cfg.JWTSecret)
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up refresh notifiers
	notifiers := refresh.Multi{refresh.NewHubNotifier(hub)}
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.NatsURL).Msg("Failed to connect to NATS")
		}
		defer nc.Close()
		notifiers = append(notifiers, refresh.NewNatsNotifier(nc))
		log.Info().Str("subject", refresh.SubjectPostCreated).Msg("Publishing post events to NATS")
	}

	// Set up services
	profileService := services.NewProfileService(directory)
	postService := services.NewPostService(postStore, directory, notifiers, services.PostOptions{
		FeedLimit:     cfg.FeedLimit,
		PostMaxLength: cfg.PostMaxLength,
	})

	pages, err := views.New(profileService, postService, views.Options{
		SignInURL:     cfg.SignInURL,
		PostMaxLength: cfg.PostMaxLength,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse page templates")
	}

	// Set up router
	router := api.NewRouter(hub, verifier, profileService, postService, pages, api.Options{
		AllowedOrigins: cfg.CORSOrigins,
		SessionCookie:  cfg.SessionCookie,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}

// openStore connects to Postgres when DATABASE_URL is set and to SQLite otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.PostStore, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigratePool(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to apply database migrations: %w", err)
		}
		log.Info().Msg("Connected to Postgres")
		return store.NewPgStore(pool), pool.Close, nil
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	log.Info().Str("path", cfg.DatabasePath).Msg("Opened SQLite database")
	return store.NewSQLStore(db), func() { db.Close() }, nil
}

// openDirectory uses the hosted users API when configured. Without one, identities come from
// the seed file, which is only meant for local development.
func openDirectory(ctx context.Context, cfg *config.Config) (identity.Directory, error) {
	if cfg.IdentityAPIURL != "" {
		return identity.NewHTTPDirectory(ctx, cfg.IdentityAPIURL, cfg.IdentityAPIKey), nil
	}
	if cfg.IdentitySeedFile != "" {
		log.Warn().Str("file", cfg.IdentitySeedFile).Msg("Using in-memory identity directory")
		dir, err := identity.LoadMemoryDirectory(cfg.IdentitySeedFile)
		if err != nil {
			return nil, err
		}
		return dir, nil
	}
	log.Warn().Msg("No identity directory configured; every profile lookup will miss")
	return identity.NewMemoryDirectory(), nil
}
