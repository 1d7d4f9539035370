package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything ferry needs to reach the service and place files.
// Values load from the TOML config file first, then FERRY_* environment
// variables, then command-line flags; later sources win.
type Config struct {
	APIKey      string `toml:"api_key" envconfig:"API_KEY"`
	BaseURL     string `toml:"base_url" envconfig:"BASE_URL"`
	DownloadDir string `toml:"download_dir" envconfig:"DOWNLOAD_DIR"`
	// PollSeconds and TimeoutSeconds are plain seconds in the file
	// (poll_interval = 5, timeout = 3600).
	PollSeconds    int `toml:"poll_interval" envconfig:"POLL_INTERVAL"`
	TimeoutSeconds int `toml:"timeout" envconfig:"TIMEOUT"`
	ChunkSize      int `toml:"chunk_size" envconfig:"CHUNK_SIZE"`
}

const (
	defaultConfigPath     = "~/.config/ferry/config.toml"
	defaultDownloadDir    = "./downloads"
	defaultPollSeconds    = 5
	defaultTimeoutSeconds = 3600

	envPrefix = "ferry"
)

// DefaultPath returns the default config file location, unexpanded.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config file at path (DefaultPath when empty), overlays
// FERRY_* environment variables, and fills remaining gaps with defaults. A
// missing file is not an error; the environment and defaults still apply.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Fall through to the environment overlay.
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer func() { _ = file.Close() }()
		raw, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("apply env overrides: %w", err)
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)

	cfg.DownloadDir = strings.TrimSpace(cfg.DownloadDir)
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = defaultDownloadDir
	}
	cfg.DownloadDir = mustExpand(cfg.DownloadDir)

	if cfg.PollSeconds <= 0 {
		cfg.PollSeconds = defaultPollSeconds
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaultTimeoutSeconds
	}
	if cfg.ChunkSize < 0 {
		cfg.ChunkSize = 0
	}

	return cfg, nil
}

// Save writes the config back to path (DefaultPath when empty), creating
// directories as needed. The file holds the API key, so it is written
// owner-only.
func Save(path string, cfg Config) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(resolved, raw, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// PollInterval returns the poll cadence as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}

// Timeout returns the completion budget as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
