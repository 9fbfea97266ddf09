package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/inboxcast/internal/api"
	"github.com/teemow/inboxcast/internal/config"
	"github.com/teemow/inboxcast/internal/google"
	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/logging"
	"github.com/teemow/inboxcast/internal/server"
)

// Supported transports.
const (
	transportHTTP  = "http"
	transportStdio = "stdio"
)

const (
	shutdownTimeout   = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	var (
		transport string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the InboxCast API or MCP server",
		Long: `Start InboxCast as an HTTP API server (default) or as an MCP server on
stdio for AI assistants.

The HTTP transport serves the REST API under /api together with the health checks.
A separate Prometheus metrics server is started unless METRICS_ENABLED=false.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(transport, addr)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", transportHTTP, "Transport type: http or stdio")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP server address (default: :8000). Can also use HTTP_ADDR env var.")

	return cmd
}

func validateTransport(transport string) error {
	switch transport {
	case transportHTTP, transportStdio:
		return nil
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)", transport, transportHTTP, transportStdio)
	}
}

func runServe(transport, addr string) error {
	if err := validateTransport(transport); err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.HTTP.Addr = addr
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	// Start metrics server if enabled and not in stdio mode
	if transport == transportHTTP && cfg.Metrics.Enabled && provider.Enabled() &&
		instrConfig.MetricsExporter == instrumentation.ExporterPrometheus {
		metricsServer, err := startMetricsServer(cfg.Metrics.Addr, provider, logger)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	serverContext, err := server.NewServerContext(shutdownCtx, server.Options{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Consent: google.LoopbackConsent(consentPrompt(logger)),
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	switch transport {
	case transportStdio:
		mcpSrv, err := newMCPServer(serverContext)
		if err != nil {
			return err
		}
		return runStdioServer(mcpSrv)
	default:
		return runHTTPServer(shutdownCtx, serverContext, cfg)
	}
}

// consentPrompt shows the Google consent URL. stdout is reserved for the
// stdio transport, so the URL goes to stderr.
func consentPrompt(logger *slog.Logger) func(string) {
	return func(authURL string) {
		logger.Info("gmail authorization required, waiting for browser consent")
		fmt.Fprintf(os.Stderr, "Open the following URL in your browser to authorize Gmail access:\n\n  %s\n\n", authURL)
	}
}

func startMetricsServer(addr string, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		Enabled:                 true,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	go func() {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped with error", logging.Err(err))
		}
	}()
	logger.Info("metrics server started", slog.String("addr", metricsServer.Addr()))
	return metricsServer, nil
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

func runHTTPServer(ctx context.Context, sc *server.ServerContext, cfg *config.Config) error {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	health := server.NewHealthChecker(sc)
	router := api.NewRouter(api.NewHandlerFromContext(sc), api.RouterOptions{Health: health})

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger := sc.Logger()
	logger.Info("starting InboxCast API",
		slog.String("addr", cfg.HTTP.Addr),
		slog.String("version", version))

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
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
