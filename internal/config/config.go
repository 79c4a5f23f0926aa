// Package config loads mlang settings from an optional JSON file and
// MLANG_* environment variables. Environment variables win.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "mlang.json"

// Config holds runtime settings for the CLI, REPL and server.
type Config struct {
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"` // text or json
	Strict    bool   `json:"strict"`

	ListenAddr string `json:"listen_addr"`

	StoreDriver string `json:"store_driver"`
	StoreDSN    string `json:"store_dsn"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:    "info",
		LogFormat:   "text",
		ListenAddr:  "127.0.0.1:7410",
		StoreDriver: "sqlite",
		StoreDSN:    "mlang.db",
	}
}

// Load reads path (or DefaultFile when path is empty and it exists) and
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("MLANG_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("MLANG_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := getenv("MLANG_STRICT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MLANG_STRICT %q: %w", v, err)
		}
		c.Strict = strict
	}
	if v := getenv("MLANG_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := getenv("MLANG_STORE_DRIVER"); v != "" {
		c.StoreDriver = v
	}
	if v := getenv("MLANG_STORE_DSN"); v != "" {
		c.StoreDSN = v
	}
	return nil
}

// Logger builds a logger writing to w in the configured format.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(c.LogLevel)}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLogLevel maps a level name to a slog level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
