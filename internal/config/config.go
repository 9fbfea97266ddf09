// Package config loads the inboxcast configuration.
//
// Values are resolved in this order, later sources overriding earlier ones:
//
//  1. built-in defaults
//  2. an optional YAML file (inboxcast.yaml or --config), with ${VAR} expansion
//  3. environment variables, including those loaded from local.env and .env
//
// Command line flags are applied on top by the cmd package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no config path is given and the file exists.
const DefaultFile = "inboxcast.yaml"

// envFiles are loaded in order. Variables already set are never overridden,
// so local.env wins over .env.
var envFiles = []string{"local.env", ".env"}

// Config is the complete inboxcast configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Gmail     GmailConfig     `yaml:"gmail"`
	Feed      FeedConfig      `yaml:"feed"`
	AI        AIConfig        `yaml:"ai"`
	Narration NarrationConfig `yaml:"narration"`
	Audio     AudioConfig     `yaml:"audio"`
	LogLevel  string          `yaml:"log_level"`
	LogFormat string          `yaml:"log_format"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// MetricsConfig configures the dedicated metrics server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// GmailConfig locates the OAuth client and token files.
type GmailConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
}

// FeedConfig configures feed fetching.
type FeedConfig struct {
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// AIConfig selects the text generation provider.
type AIConfig struct {
	Provider        string `yaml:"provider"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	Model           string `yaml:"model"`
}

// NarrationConfig configures the MiniMax client.
type NarrationConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AudioConfig configures where generated audio is written.
type AudioConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP:    HTTPConfig{Addr: ":8000"},
		Metrics: MetricsConfig{Enabled: true, Addr: ":9090"},
		Gmail: GmailConfig{
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
		},
		Feed: FeedConfig{
			UserAgent: "InboxCast/1.0",
			Timeout:   30 * time.Second,
		},
		AI: AIConfig{Provider: "gemini"},
		Narration: NarrationConfig{
			BaseURL: "https://api.minimax.chat/v1/text_to_speech",
			Timeout: 30 * time.Second,
		},
		Audio:     AudioConfig{Dir: "/tmp"},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment. An empty path reads DefaultFile when it exists; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		if err := cfg.readFile(file); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles() error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.HTTP.Addr = getEnvOrDefault("HTTP_ADDR", c.HTTP.Addr)
	c.Metrics.Addr = getEnvOrDefault("METRICS_ADDR", c.Metrics.Addr)
	c.Gmail.CredentialsFile = getEnvOrDefault("GMAIL_CREDENTIALS_FILE", c.Gmail.CredentialsFile)
	c.Gmail.TokenFile = getEnvOrDefault("GMAIL_TOKEN_FILE", c.Gmail.TokenFile)
	c.Feed.UserAgent = getEnvOrDefault("FEED_USER_AGENT", c.Feed.UserAgent)
	c.AI.Provider = getEnvOrDefault("AI_PROVIDER", c.AI.Provider)
	c.AI.GeminiAPIKey = getEnvOrDefault("GEMINI_API_KEY", c.AI.GeminiAPIKey)
	c.AI.AnthropicAPIKey = getEnvOrDefault("ANTHROPIC_API_KEY", c.AI.AnthropicAPIKey)
	c.AI.Model = getEnvOrDefault("AI_MODEL", c.AI.Model)
	c.Narration.APIKey = getEnvOrDefault("MINIMAX_API_KEY", c.Narration.APIKey)
	c.Narration.BaseURL = getEnvOrDefault("MINIMAX_BASE_URL", c.Narration.BaseURL)
	c.Audio.Dir = getEnvOrDefault("AUDIO_DIR", c.Audio.Dir)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("LOG_FORMAT", c.LogFormat)

	var err error
	if c.Metrics.Enabled, err = getEnvBool("METRICS_ENABLED", c.Metrics.Enabled); err != nil {
		return err
	}
	if c.Feed.Timeout, err = getEnvDuration("FEED_TIMEOUT", c.Feed.Timeout); err != nil {
		return err
	}
	if c.Narration.Timeout, err = getEnvDuration("MINIMAX_TIMEOUT", c.Narration.Timeout); err != nil {
		return err
	}
	return nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
