// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

var ErrMissingPassword = errors.New("NEO4J_PASSWORD environment variable is required")

// Config holds the settings for one server or CLI process.
type Config struct {
	URI      string `validate:"required,uri"`
	Username string `validate:"required"`
	Password string
	Database string `validate:"required"`
	ReadOnly bool

	Transport   string `validate:"oneof=stdio http"`
	HTTPAddr    string `validate:"required_if=Transport http"`
	MetricsAddr string

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`

	UploadDir     string `validate:"required"`
	MaxUploadSize int64  `validate:"gt=0"`
	NumWorkers    int    `validate:"gte=1,lte=64"`

	// PlaybookDir overrides the embedded playbooks with a directory on disk.
	PlaybookDir string

	TelemetryEndpoint string `validate:"omitempty,url"`
}

// LoadConfig reads the environment and applies defaults. The result is not
// validated so that flags can still override it; call Validate afterwards.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		URI:               getEnvWithDefault("NEO4J_URI", "bolt://localhost:7687"),
		Username:          getEnvWithDefault("NEO4J_USERNAME", "neo4j"),
		Password:          os.Getenv("NEO4J_PASSWORD"),
		Database:          getEnvWithDefault("NEO4J_DATABASE", "neo4j"),
		Transport:         strings.ToLower(getEnvWithDefault("MCP_TRANSPORT", TransportStdio)),
		HTTPAddr:          getEnvWithDefault("MCP_HTTP_ADDR", ":8080"),
		MetricsAddr:       os.Getenv("METRICS_ADDR"),
		LogLevel:          strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogFormat:         strings.ToLower(getEnvWithDefault("LOG_FORMAT", LogFormatText)),
		UploadDir:         getEnvWithDefault("UPLOAD_DIR", "./data/uploads"),
		PlaybookDir:       os.Getenv("PLAYBOOK_DIR"),
		TelemetryEndpoint: os.Getenv("TELEMETRY_ENDPOINT"),
	}

	var err error
	if cfg.ReadOnly, err = parseBool("NEO4J_READ_ONLY", false); err != nil {
		return nil, err
	}
	if cfg.MaxUploadSize, err = parseInt64("MAX_UPLOAD_SIZE", 100*1024*1024); err != nil {
		return nil, err
	}
	n, err := parseInt64("NUM_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	cfg.NumWorkers = int(n)

	return cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Password == "" {
		return ErrMissingPassword
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger. Output always goes to stderr so the
// stdio transport keeps stdout for protocol traffic.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func parseInt64(key string, def int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
