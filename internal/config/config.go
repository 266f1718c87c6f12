// Package config resolves tally settings. Later sources override earlier
// ones: defaults, the YAML config file, a .env file, then TALLY_* variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`
	// Container names the remote spreadsheet to sync with.
	Container string `yaml:"container"`
	// Credentials is a service account file path or inline JSON. Empty
	// means application default credentials.
	Credentials string `yaml:"credentials"`
	LogMode     string `yaml:"log_mode"`
	LogLevel    string `yaml:"log_level"`
}

// DefaultConfig keeps everything under home/.tally.
func DefaultConfig(home string) Config {
	return Config{
		DBPath:    filepath.Join(home, ".tally", "tally.db"),
		Container: "Tally",
		LogMode:   "dev",
		LogLevel:  "warn",
	}
}

// Load resolves the configuration for the current user.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	return load(home, ".env")
}

func load(home, dotenv string) (Config, error) {
	cfg := DefaultConfig(home)

	// .env only fills variables the environment does not already set.
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("reading %s: %w", dotenv, err)
	}

	path := os.Getenv("TALLY_CONFIG")
	if path == "" {
		path = filepath.Join(home, ".tally", "config.yaml")
	}
	if err := loadFile(path, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TALLY_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TALLY_CONTAINER"); v != "" {
		cfg.Container = v
	}
	if v := firstEnv("TALLY_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS_JSON", "GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		cfg.Credentials = v
	}
	if v := os.Getenv("TALLY_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if v := os.Getenv("TALLY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("config: db_path is empty")
	}
	if strings.TrimSpace(c.Container) == "" {
		return errors.New("config: container is empty")
	}
	switch c.LogMode {
	case "dev", "prod":
	default:
		return fmt.Errorf("config: log_mode must be dev or prod, got %q", c.LogMode)
	}
	return nil
}
