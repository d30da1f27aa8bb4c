// Package main is the entry point for the flowsite API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flowsite/internal/auth"
	"flowsite/internal/cache"
	"flowsite/internal/config"
	"flowsite/internal/database"
	"flowsite/internal/handlers"
	"flowsite/internal/mailer"
	"flowsite/internal/payments"
	"flowsite/internal/router"
	"flowsite/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// First-run seed: without it a fresh deployment has no admin user and the
	// dashboard is unreachable. No-op once users exist.
	if err := database.Seed(db); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (Redis-compatible cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	settingStore := store.NewSettingStore(db)
	templateStore := store.NewTemplateStore(db)
	blogStore := store.NewBlogStore(db)
	contactStore := store.NewContactStore(db)
	downloadStore := store.NewDownloadStore(db)
	statsStore := store.NewStatsStore(db)

	// Public settings are cached in Valkey; webhook events are deduplicated
	// there as well so provider retries never double-fulfill.
	settingsCache := cache.NewSettingsCache(valkeyClient, cache.DefaultSettingsTTL)
	eventDedup := cache.NewEventDedup(valkeyClient, cache.DefaultEventTTL)

	// Notification email is optional — without SMTP configured, sends are
	// logged and the app keeps working.
	var mail mailer.Mailer
	if cfg.SMTPConfigured() {
		mail, err = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
		if err != nil {
			slog.Error("failed to initialize smtp mailer", "error", err)
			os.Exit(1)
		}
		slog.Info("smtp mailer connected", "host", cfg.SMTPHost)
	} else {
		mail = mailer.NewLog()
		slog.Warn("smtp not configured — notification emails will be logged only")
	}

	// Payment provider is optional too: without keys, checkout endpoints
	// report the provider as unavailable but the rest of the site works.
	if !cfg.StripeConfigured() {
		slog.Warn("stripe not configured — pro template checkout disabled")
	}
	paymentService := payments.New(
		cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.FrontendOrigin,
		templateStore, downloadStore, mail, eventDedup,
	)

	// Two authentication strategies share one contract: bearer JWTs for the
	// admin dashboard, API keys for the automation gateway.
	jwtAuth := auth.NewJWTAuthenticator(cfg.JWTSecret, userStore)
	keyAuth := auth.NewAPIKeyAuthenticator(userStore)

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(templateStore, blogStore, contactStore, downloadStore, settingStore, settingsCache, mail)
	authHandlers := handlers.NewAuth(userStore, jwtAuth)
	adminHandlers := handlers.NewAdmin(templateStore, blogStore, contactStore, settingStore, statsStore, settingsCache)
	paymentHandlers := handlers.NewPayments(paymentService)

	// Set up the Chi router with all middleware and routes.
	r := router.New(jwtAuth, keyAuth, publicHandlers, authHandlers, adminHandlers, paymentHandlers, cfg.FrontendOrigin)

	// Create the HTTP server with sensible timeouts. WriteTimeout allows for
	// checkout session creation, which round-trips to the payment provider.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
