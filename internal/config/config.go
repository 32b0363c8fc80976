package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileEnv names the environment variable pointing at an optional config file.
const FileEnv = "KALORIFY_CONFIG"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Locale   LocaleConfig   `mapstructure:"locale"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type AnalyzerConfig struct {
	Backend    string        `mapstructure:"backend"`
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	// SplitErrors shows distinct messages for unreachable service and
	// unreadable response instead of one generic failure message.
	SplitErrors bool `mapstructure:"split_errors"`
}

type OpenAIConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	APIEndpoint string `mapstructure:"endpoint"`
	Model       string `mapstructure:"model"`
	APIVersion  string `mapstructure:"api_version"`
	MaxTokens   int64  `mapstructure:"max_tokens"`
}

type LocaleConfig struct {
	// CatalogFile replaces the embedded catalog when set.
	CatalogFile string `mapstructure:"catalog_file"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	BackendWebhook = "webhook"
	BackendOpenAI  = "openai"
)

var defaults = map[string]interface{}{
	"server.port":             "8000",
	"server.host":             "0.0.0.0",
	"server.read_timeout":     "30s",
	"server.write_timeout":    "90s",
	"server.max_upload_bytes": 10 << 20,
	"server.allowed_origins":  []string{"*"},

	"analyzer.backend":      BackendWebhook,
	"analyzer.webhook_url":  "https://n8n.birsonraki.net/webhook/test",
	"analyzer.timeout":      "60s",
	"analyzer.split_errors": false,

	"openai.provider":    "openai",
	"openai.api_key":     "",
	"openai.endpoint":    "https://api.openai.com/v1",
	"openai.model":       "gpt-4o-mini",
	"openai.api_version": "2024-06-01",
	"openai.max_tokens":  1500,

	"locale.catalog_file": "",
	"telegram.token":      "",
	"log.level":           "info",
}

// LoadConfig reads defaults, then the optional file named by KALORIFY_CONFIG,
// then environment variables (SERVER_PORT overrides server.port).
func LoadConfig() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(FileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		slog.Info("configuration file loaded", "path", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Info("configuration loaded successfully", "backend", cfg.Analyzer.Backend)
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Analyzer.Backend {
	case BackendWebhook:
		if c.Analyzer.WebhookURL == "" {
			return fmt.Errorf("analyzer.webhook_url is required for the webhook backend")
		}
	case BackendOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required for the openai backend")
		}
	default:
		return fmt.Errorf("unknown analyzer backend %q", c.Analyzer.Backend)
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	return nil
}

// SlogLevel maps log.level to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
