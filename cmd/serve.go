package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/daybook-ai/daybook/internal/api"
	"github.com/daybook-ai/daybook/internal/auth"
	"github.com/daybook-ai/daybook/internal/metrics"
	"github.com/daybook-ai/daybook/internal/registry"
	"github.com/daybook-ai/daybook/internal/server"
	"github.com/daybook-ai/daybook/internal/store"
	"github.com/daybook-ai/daybook/internal/tools/calendar_tools"
	"github.com/daybook-ai/daybook/internal/tools/voice_tools"
	"github.com/daybook-ai/daybook/internal/voice"
)

// serveConfig holds the resolved serve settings after flags and environment
// variables are merged.
type serveConfig struct {
	debug      bool
	transport  string
	httpAddr   string
	dbPath     string
	readOnly   bool
	sessionTTL time.Duration

	googleCreds    auth.OAuthCredentials
	microsoftCreds auth.OAuthCredentials

	metricsEnabled bool
	metricsAddr    string
}

func defaultDBPath() string {
	if path := os.Getenv("DAYBOOK_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "daybook.db"
	}
	return filepath.Join(home, ".daybook", "daybook.db")
}

func newServeCmd() *cobra.Command {
	var (
		cfg  serveConfig
		yolo bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the daybook server",
		Long: `Start the daybook calendar assistant server.

Supports multiple transport types:
  - stdio: MCP over standard input/output (default)
  - streamable-http: MCP over HTTP plus the calendar REST API

Safety Mode:
  By default, the MCP surface operates in read-only mode, withholding
  destructive tools. Use --yolo to enable event updates and deletion.

OAuth Configuration:
  Account links are stored in a local database; access tokens are
  refreshed with the configured client credentials:
    --google-client-id and --google-client-secret flags
    OR GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars
    --ms-client-id and --ms-client-secret flags
    OR MS_CLIENT_ID and MS_CLIENT_SECRET env vars
  A provider without credentials still serves requests until its stored
  access tokens expire.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.readOnly = !yolo

			// Environment fallbacks for anything not set via flags.
			if cfg.googleCreds.ClientID == "" {
				cfg.googleCreds.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
			}
			if cfg.googleCreds.ClientSecret == "" {
				cfg.googleCreds.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
			}
			if cfg.microsoftCreds.ClientID == "" {
				cfg.microsoftCreds.ClientID = os.Getenv("MS_CLIENT_ID")
			}
			if cfg.microsoftCreds.ClientSecret == "" {
				cfg.microsoftCreds.ClientSecret = os.Getenv("MS_CLIENT_SECRET")
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := os.Getenv("METRICS_ADDR"); addr != "" {
					cfg.metricsAddr = addr
				}
			}

			return runServe(cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&cfg.transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&cfg.httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().StringVar(&cfg.dbPath, "db", defaultDBPath(), "Path to the account database. Can also use DAYBOOK_DB env var.")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable destructive MCP tools (event update and deletion). Default is read-only mode.")
	cmd.Flags().DurationVar(&cfg.sessionTTL, "session-ttl", voice.DefaultTTL, "Voice session time-to-live")
	cmd.Flags().StringVar(&cfg.googleCreds.ClientID, "google-client-id", "", "Google OAuth client ID for token refresh. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&cfg.googleCreds.ClientSecret, "google-client-secret", "", "Google OAuth client secret for token refresh. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().StringVar(&cfg.microsoftCreds.ClientID, "ms-client-id", "", "Microsoft OAuth client ID for token refresh. Can also use MS_CLIENT_ID env var.")
	cmd.Flags().StringVar(&cfg.microsoftCreds.ClientSecret, "ms-client-secret", "", "Microsoft OAuth client secret for token refresh. Can also use MS_CLIENT_SECRET env var.")
	cmd.Flags().BoolVar(&cfg.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port")
	cmd.Flags().StringVar(&cfg.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(cfg serveConfig) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logLevel := slog.LevelInfo
	if cfg.debug {
		logLevel = slog.LevelDebug
	}
	// Stdout belongs to the MCP transport in stdio mode; logs go to stderr
	// either way.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if dir := filepath.Dir(cfg.dbPath); dir != "." && cfg.dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	st, err := store.Open(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open account database: %w", err)
	}

	source := auth.NewStoreSource(st, cfg.googleCreds, cfg.microsoftCreds)
	reg := registry.New(source)

	var (
		promRegistry *prometheus.Registry
		m            *metrics.Metrics
	)
	if cfg.metricsEnabled {
		promRegistry = prometheus.NewRegistry()
		promRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(promRegistry)
	}

	sessionOpts := []voice.StoreOption{voice.WithTTL(cfg.sessionTTL)}
	if m != nil {
		sessionOpts = append(sessionOpts, voice.WithOnChange(func(delta int) {
			for ; delta > 0; delta-- {
				m.SessionStarted()
			}
			for ; delta < 0; delta++ {
				m.SessionEnded()
			}
		}))
	}
	sessions := voice.NewStore(sessionOpts...)
	sessions.Start()

	serverContext := server.NewServerContext(shutdownCtx, reg, st, sessions, m, logger)
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("error during server context shutdown", "error", err)
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("daybook", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := calendar_tools.RegisterCalendarTools(mcpSrv, serverContext, cfg.readOnly); err != nil {
		return err
	}
	if err := voice_tools.RegisterVoiceTools(mcpSrv, serverContext); err != nil {
		return err
	}

	switch cfg.transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runHTTPServer(shutdownCtx, cfg, mcpSrv, serverContext, promRegistry)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runHTTPServer(ctx context.Context, cfg serveConfig, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, promRegistry *prometheus.Registry) error {
	logger := sc.Logger()

	mux := http.NewServeMux()

	handler := api.NewHandler(sc.Registry(), logger, sc.Metrics())
	handler.Register(mux)

	healthChecker := server.NewHealthChecker(sc)
	healthChecker.RegisterHealthEndpoints(mux)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv)
	mux.Handle("/mcp", streamable)

	httpServer := &http.Server{
		Addr:              cfg.httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var metricsServer *server.MetricsServer
	if cfg.metricsEnabled && promRegistry != nil {
		metricsServer = server.NewMetricsServer(cfg.metricsAddr, promRegistry)
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	logger.Info("starting daybook server",
		"addr", cfg.httpAddr,
		"read_only", cfg.readOnly)
	logger.Info("endpoints registered",
		"api", "/api/{provider}/calendars",
		"mcp", "/mcp",
		"health", "/healthz /readyz")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("error shutting down metrics server", "error", err)
			}
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
