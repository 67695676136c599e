// Package config loads server and session configuration from a YAML file,
// a .env file, and the process environment, in that order of precedence
// (environment wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the binaries need to start a session and serve it.
type Config struct {
	Port       int    `yaml:"port"`
	DBPath     string `yaml:"db_path"`
	ArchiveDir string `yaml:"archive_dir"` // Decision-log archives; empty disables
	AdminKey   string `yaml:"admin_key"`   // Bearer token for restart; empty leaves it open
	LogLevel   string `yaml:"log_level"`

	Seed      int64 `yaml:"seed"` // 0 = fresh random seed
	MaxDays   int   `yaml:"max_days"`
	Citizens  int   `yaml:"citizens"`
	PacingMs  int   `yaml:"pacing_ms"`   // Delay between a decision and the next day
	FrameMs   int   `yaml:"frame_ms"`    // Motion scheduler frame interval
	StreamMax int   `yaml:"stream_max"` // Concurrent websocket viewers

	CORSOrigins []string `yaml:"cors_origins"`

	// Settings seed the toggles when no saved record exists.
	Settings Settings `yaml:"settings"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:       8080,
		DBPath:     "data/echochamber.db",
		ArchiveDir: "data/archive",
		LogLevel:   "info",
		MaxDays:    10,
		Citizens:   10,
		PacingMs:   1500,
		FrameMs:    50,
		StreamMax:  8,
		CORSOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
		},
		Settings: DefaultSettings(),
	}
}

// Load builds a Config from defaults, then the YAML file at path (if it
// exists), then .env and the environment. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("config file not found, using defaults", "path", path)
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ECHO_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ECHO_PORT: %w", err)
		}
		c.Port = p
	}
	if v := os.Getenv("ECHO_SEED"); v != "" {
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("ECHO_SEED: %w", err)
		}
		c.Seed = s
	}
	if v := os.Getenv("ECHO_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v, ok := os.LookupEnv("ECHO_ARCHIVE_DIR"); ok {
		c.ArchiveDir = v
	}
	if v := os.Getenv("ECHO_ADMIN_KEY"); v != "" {
		c.AdminKey = v
	}
	if v := os.Getenv("ECHO_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.CORSOrigins = append(c.CORSOrigins, origin)
			}
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.MaxDays < 1 {
		return fmt.Errorf("max_days must be at least 1, got %d", c.MaxDays)
	}
	if c.Citizens < 0 {
		return fmt.Errorf("citizens must not be negative, got %d", c.Citizens)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	return nil
}

// Pacing returns the delay between a decision and the next day.
func (c Config) Pacing() time.Duration {
	return time.Duration(c.PacingMs) * time.Millisecond
}

// FrameInterval returns the motion scheduler's frame interval.
func (c Config) FrameInterval() time.Duration {
	if c.FrameMs <= 0 {
		return 50 * time.Millisecond
	}
	return time.Duration(c.FrameMs) * time.Millisecond
}

// SlogLevel maps the configured level name to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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
