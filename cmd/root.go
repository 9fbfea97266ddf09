package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxcast/internal/config"
	"github.com/teemow/inboxcast/internal/logging"
)

// rootCmd represents the base command for the inboxcast application
var rootCmd = &cobra.Command{
	Use:   "inboxcast",
	Short: "Turns your inbox and RSS feeds into podcast-style audio",
	Long: `inboxcast collects Gmail messages and RSS entries, rewrites them into
audio-ready text with a generative model and narrates the result with MiniMax.

It can run as:
  - An HTTP API server (default)
  - An MCP (Model Context Protocol) server for AI assistants
  - A set of CLI commands for feeds, the inbox and integration checks`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

var (
	configFile string
	logLevel   string
	logFormat  string
)

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "inboxcast version %s\n" .Version}}`)

	// If no subcommand is provided, run the API server by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file (default: inboxcast.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error. Can also use LOG_LEVEL env var.")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json. Can also use LOG_FORMAT env var.")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newFeedCmd())
	rootCmd.AddCommand(newInboxCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// loadConfig reads the configuration and builds the root logger. Flags win
// over the file and the environment. Logs go to stderr so stdout stays free
// for command output and the MCP stdio transport.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	logger, err := logging.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
