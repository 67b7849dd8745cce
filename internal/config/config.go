package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Config is the root configuration for the qmtg CLI.
type Config struct {
	Home     string   `toml:"home"`
	Scryfall Scryfall `toml:"scryfall"`
	Logging  Logging  `toml:"logging"`
}

// Scryfall configures the catalog client.
type Scryfall struct {
	Host           string `toml:"host"`
	Pretty         bool   `toml:"pretty"`
	RateLimitMS    int    `toml:"rate_limit_ms"`
	CatalogTTLDays int    `toml:"catalog_ttl_days"`
}

// Logging configures log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// StoreFile is where the inventory/binder object store persists.
func (c *Config) StoreFile() string {
	return filepath.Join(c.Home, "qmtg.dat")
}

// CacheFile is where the Scryfall response/image metadata snapshot persists.
func (c *Config) CacheFile() string {
	return filepath.Join(c.Home, "scryfall.dat")
}

// FileStoreDir is the root directory for cached image files.
func (c *Config) FileStoreDir() string {
	return filepath.Join(c.Home, "filestore")
}

// RateLimit returns the minimum interval between Scryfall requests.
func (c *Config) RateLimit() time.Duration {
	return time.Duration(c.Scryfall.RateLimitMS) * time.Millisecond
}

// CatalogTTL returns how long static catalog lists stay fresh.
func (c *Config) CatalogTTL() time.Duration {
	return time.Duration(c.Scryfall.CatalogTTLDays) * 24 * time.Hour
}

// Load reads configuration from path, or from <home>/config.toml when path
// is empty. It returns the loaded config, the path consulted, and whether a
// config file was actually read (false means pure defaults).
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, resolved, false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
		if err := cfg.normalize(); err != nil {
			return nil, resolved, false, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, resolved, false, err
		}
		return &cfg, resolved, true, nil
	case errors.Is(err, fs.ErrNotExist):
		if path != "" {
			return nil, resolved, false, fmt.Errorf("config file %s not found", resolved)
		}
		if err := cfg.normalize(); err != nil {
			return nil, resolved, false, err
		}
		return &cfg, resolved, false, nil
	default:
		return nil, resolved, false, fmt.Errorf("read config %s: %w", resolved, err)
	}
}

// DefaultConfigPath is where Load looks when no explicit path is given.
func DefaultConfigPath() (string, error) {
	return resolveConfigPath("")
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return expandPath(path)
	}
	home, err := defaultHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "config.toml"), nil
}

// EnsureDirectories creates the qmtg home and its subdirectories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Home, c.FileStoreDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure directory %s: %w", dir, err)
		}
	}
	return nil
}

// CreateSample writes the annotated sample config to path, refusing to
// overwrite an existing file.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file %s already exists", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Home) == "" {
		c.Home, err = defaultHome()
	} else {
		c.Home, err = expandPath(c.Home)
	}
	if err != nil {
		return err
	}

	c.Scryfall.Host = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(c.Scryfall.Host), "https://"), "http://")
	c.Scryfall.Host = strings.TrimSuffix(c.Scryfall.Host, "/")
	if c.Scryfall.Host == "" {
		c.Scryfall.Host = defaultScryfallHost
	}
	if c.Scryfall.RateLimitMS == 0 {
		c.Scryfall.RateLimitMS = defaultRateLimitMS
	}
	if c.Scryfall.CatalogTTLDays == 0 {
		c.Scryfall.CatalogTTLDays = defaultCatalogTTLDays
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	if c.Scryfall.RateLimitMS < 0 {
		return errors.New("scryfall.rate_limit_ms must not be negative")
	}
	if c.Scryfall.CatalogTTLDays < 0 {
		return errors.New("scryfall.catalog_ttl_days must not be negative")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func defaultHome() (string, error) {
	return expandPath(defaultHomeDir)
}

func expandPath(pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return "", errors.New("path is empty")
	}
	if pathValue == "~" || strings.HasPrefix(pathValue, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		pathValue = filepath.Join(home, strings.TrimPrefix(pathValue, "~"))
	}
	return filepath.Abs(pathValue)
}
