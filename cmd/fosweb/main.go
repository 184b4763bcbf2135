// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/agrodirect/fos-web/internal/api"
	"github.com/agrodirect/fos-web/internal/config"
	"github.com/agrodirect/fos-web/internal/handler"
	"github.com/agrodirect/fos-web/internal/middleware"
	"github.com/agrodirect/fos-web/internal/model"
	"github.com/agrodirect/fos-web/internal/render"
	"github.com/agrodirect/fos-web/internal/session"
	"github.com/agrodirect/fos-web/internal/store"
	"github.com/agrodirect/fos-web/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "fosweb - Fertilizer Ordering System web frontend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOS_API_BASE_URL       Backend API base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOS_SESSION_SECRET     Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOS_SESSION_DB_PATH    SQLite session store path (default: ./data/fosweb.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOS_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOS_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOS_API_TIMEOUT        Backend call timeout in seconds (default: 15)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("fosweb %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.SessionDBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize session store database
	slog.Info("initializing session store", "path", cfg.SessionDBPath)
	db, err := store.NewDB(cfg.SessionDBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("session store ready")

	// Initialize session manager
	sessionManager := session.NewManager(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Initialize backend API client
	apiClient := api.New(cfg.APIBaseURL, cfg.APITimeout())
	slog.Info("backend client initialized", "base_url", cfg.APIBaseURL, "timeout", cfg.APITimeout())

	// Initialize template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))
	slog.Info("security headers middleware initialized", "hsts", !cfg.IsDevelopment())

	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())
	r.Use(csrfMiddleware)

	// Initialize login protection
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Public rate limiter for auth routes (defense-in-depth)
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)
	slog.Info("public rate limiter initialized", "rate", "10 req/s", "burst", 20)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(apiClient, sessionManager, renderer, loginProtection)
	farmerHandler := handler.NewFarmerHandler(apiClient, sessionManager, renderer)
	adminHandler := handler.NewAdminHandler(apiClient, sessionManager, renderer)
	healthHandler := handler.NewHealthHandler(db, apiClient, sessionManager)
	siteHandler := handler.NewSiteHandler(renderer)

	// Health check routes
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	// Auth routes (public, rate limited)
	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.HTMLMiddleware())

		r.Get(handler.PathRoot, authHandler.Home)

		r.Get(handler.PathFarmerLogin, authHandler.ShowFarmerLogin)
		r.With(loginProtection.Middleware()).Post(handler.PathFarmerLogin+"/request-otp", authHandler.FarmerRequestOTP)
		r.With(loginProtection.Middleware()).Post(handler.PathFarmerLogin+"/verify", authHandler.FarmerVerifyOTP)
		r.Post(handler.PathFarmerLogin+"/back", authHandler.FarmerLoginBack)

		r.Get(handler.PathFarmerRegister, authHandler.ShowFarmerRegister)
		r.With(loginProtection.Middleware()).Post(handler.PathFarmerRegister, authHandler.FarmerRegister)
		r.With(loginProtection.Middleware()).Post(handler.PathFarmerRegister+"/verify", authHandler.FarmerRegisterVerify)
		r.Post(handler.PathFarmerRegister+"/back", authHandler.FarmerRegisterBack)

		r.Get(handler.PathAdminLogin, authHandler.ShowAdminLogin)
		r.With(loginProtection.Middleware()).Post(handler.PathAdminLogin, authHandler.AdminLogin)
	})

	r.Post(handler.PathLogout, authHandler.Logout)

	// Farmer routes (session + farmer role required)
	r.Route(handler.PathFarmerHome, func(r chi.Router) {
		r.Use(middleware.RequireSession(sessionManager))
		r.Use(middleware.RequireRole(sessionManager, model.UserTypeFarmer))
		r.Use(middleware.LoadUser(sessionManager))

		r.Get("/", farmerHandler.Dashboard)
		r.Get("/orders", farmerHandler.Dashboard)
		r.Get("/new-order", farmerHandler.NewOrder)
		r.Post("/new-order", farmerHandler.SubmitOrder)
	})

	// Admin routes (session + admin role required)
	r.Route(handler.PathAdminHome, func(r chi.Router) {
		r.Use(middleware.RequireSession(sessionManager))
		r.Use(middleware.RequireRole(sessionManager, model.UserTypeAdmin))
		r.Use(middleware.LoadUser(sessionManager))

		r.Get("/", adminHandler.Dashboard)
		r.Get("/orders", adminHandler.Orders)
		r.Get("/orders/{id}/review", adminHandler.ReviewOrder)
		r.Post("/orders/{id}/approve", adminHandler.ApproveOrder)
		r.Post("/orders/{id}/decline", adminHandler.DeclineOrder)
		r.Get("/fertilizers", adminHandler.Fertilizers)
		r.Post("/fertilizers", adminHandler.AddFertilizer)
		r.Get("/fertilizers/{id}/edit", adminHandler.EditFertilizer)
		r.Post("/fertilizers/{id}", adminHandler.UpdateFertilizer)
	})

	// Where role mismatches land
	r.Get(handler.PathNotFound, siteHandler.NotFound)

	// Static file serving
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.NotFound(siteHandler.NotFound)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
