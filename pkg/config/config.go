// Package config loads DevPulse settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/devpulse/config.toml (falling
// back to ~/.config/devpulse/config.toml). Every key is optional; see
// [Default] for the values used when a key or the whole file is missing.
//
//	[popularity]
//	languages = ["Go", "Rust", "Zig"]
//	min_stars = 100
//	concurrency = 4
//	request_timeout = "15s"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/integrations/github"
	"github.com/matzehuels/devpulse/pkg/popularity"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// History backends for the API server.
const (
	HistoryMemory = "memory"
	HistoryMongo  = "mongo"
)

// DefaultPalette holds the bar colours of the ranked language list, by rank.
var DefaultPalette = []string{
	"#3b82f6", "#ef4444", "#10b981", "#f59e0b", "#8b5cf6",
	"#ec4899", "#14b8a6", "#f97316", "#6366f1", "#06b6d4",
}

// DefaultTrendingLanguages are the filter choices offered by the dashboard.
var DefaultTrendingLanguages = []string{
	"all", "javascript", "python", "typescript", "java", "go", "rust", "cpp",
}

// Config is the complete DevPulse configuration.
type Config struct {
	Popularity Popularity `toml:"popularity"`
	Trending   Trending   `toml:"trending"`
	GitHub     GitHub     `toml:"github"`
	Cache      Cache      `toml:"cache"`
	Server     Server     `toml:"server"`
}

// Popularity configures the language ranking.
type Popularity struct {
	Languages      []string      `toml:"languages"`
	MinStars       int           `toml:"min_stars"`
	Concurrency    int           `toml:"concurrency"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	Palette        []string      `toml:"palette"`
}

// Trending configures the trending repository list.
type Trending struct {
	MinStars  int      `toml:"min_stars"`
	PerPage   int      `toml:"per_page"`
	Languages []string `toml:"languages"`
}

// GitHub configures API access.
type GitHub struct {
	Token    string        `toml:"token"`
	BaseURL  string        `toml:"base_url"`
	CacheTTL time.Duration `toml:"cache_ttl"`
	CountTTL time.Duration `toml:"count_cache_ttl"`
}

// Cache selects where API responses are cached.
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Server configures `devpulse serve`.
type Server struct {
	Addr          string `toml:"addr"`
	History       string `toml:"history"`
	HistoryLimit  int    `toml:"history_limit"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Popularity: Popularity{
			Languages:      slices.Clone(popularity.DefaultLanguages),
			MinStars:       popularity.DefaultMinimumStars,
			Concurrency:    1,
			RequestTimeout: 15 * time.Second,
			Palette:        slices.Clone(DefaultPalette),
		},
		Trending: Trending{
			MinStars:  1000,
			PerPage:   20,
			Languages: slices.Clone(DefaultTrendingLanguages),
		},
		GitHub: GitHub{
			BaseURL:  github.DefaultBaseURL,
			CacheTTL: time.Hour,
		},
		Cache: Cache{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
		},
		Server: Server{
			Addr:          ":8080",
			History:       HistoryMemory,
			HistoryLimit:  100,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "devpulse",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "devpulse", "config.toml"), nil
}

// Load reads the file at path over the defaults and validates the result.
// An empty path loads DefaultPath, where a missing file is not an error;
// an explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return cfg, nil
	default:
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the commands cannot run with.
func (c *Config) Validate() error {
	if err := pkgerrors.ValidateLanguages(c.Popularity.Languages); err != nil {
		return err
	}
	if c.Popularity.MinStars < 0 || c.Trending.MinStars < 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "min_stars must not be negative")
	}
	if c.Popularity.Concurrency < 1 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "popularity.concurrency must be at least 1")
	}
	if c.Popularity.RequestTimeout <= 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "popularity.request_timeout must be positive")
	}
	if len(c.Popularity.Palette) == 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "popularity.palette must not be empty")
	}
	if c.Trending.PerPage < 1 || c.Trending.PerPage > 100 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "trending.per_page must be between 1 and 100")
	}
	if err := pkgerrors.ValidateURL(c.GitHub.BaseURL); err != nil {
		return err
	}
	if c.GitHub.CacheTTL < 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "github.cache_ttl must not be negative")
	}
	if c.GitHub.CountTTL < 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "github.count_cache_ttl must not be negative")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Server.History {
	case HistoryMemory, HistoryMongo:
	default:
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "unknown history backend %q", c.Server.History)
	}
	if c.Server.HistoryLimit < 1 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "server.history_limit must be at least 1")
	}
	return nil
}

// PopularityConfig converts the [popularity] section into aggregator input.
func (c *Config) PopularityConfig() popularity.Config {
	return popularity.Config{
		Languages:      slices.Clone(c.Popularity.Languages),
		MinimumStars:   c.Popularity.MinStars,
		Concurrency:    c.Popularity.Concurrency,
		RequestTimeout: c.Popularity.RequestTimeout,
	}
}

// ResolveToken picks the GitHub token: flag, then GITHUB_TOKEN, then the
// config file, then stored. The second result names the source.
func (c *Config) ResolveToken(flag, stored string) (token, source string) {
	switch {
	case flag != "":
		return flag, "flag"
	case os.Getenv("GITHUB_TOKEN") != "":
		return os.Getenv("GITHUB_TOKEN"), "env"
	case c.GitHub.Token != "":
		return c.GitHub.Token, "config"
	case stored != "":
		return stored, "session"
	}
	return "", ""
}
