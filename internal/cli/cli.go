// Package cli implements the devpulse command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/devpulse/pkg/buildinfo"
	"github.com/matzehuels/devpulse/pkg/cache"
	"github.com/matzehuels/devpulse/pkg/config"
	"github.com/matzehuels/devpulse/pkg/integrations/github"
	"github.com/matzehuels/devpulse/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "devpulse"

	// commandTimeout bounds a single one-shot command.
	commandTimeout = 2 * time.Minute
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags.
	configPath string
	token      string
	noCache    bool
	refresh    bool

	// cfg is loaded once per invocation by the root pre-run hook.
	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "DevPulse shows what is happening on GitHub",
		Long:         `DevPulse shows trending repositories, developer profiles and a language popularity ranking computed from the GitHub search API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/devpulse/config.toml)")
	flags.StringVar(&c.token, "token", "", "GitHub token (overrides GITHUB_TOKEN and stored login)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the response cache")
	flags.BoolVar(&c.refresh, "refresh", false, "ignore cached responses and fetch fresh data")

	root.AddCommand(c.languagesCommand())
	root.AddCommand(c.trendingCommand())
	root.AddCommand(c.developerCommand())
	root.AddCommand(c.dashboardCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.authCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.rateLimitCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded configuration, or defaults if no command
// pre-run has loaded one.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Client Factory
// =============================================================================

// newCache opens the cache backend selected by config and flags.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.config().Cache
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, continuing without cache", "error", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// resolveToken returns the GitHub token and where it came from.
func (c *CLI) resolveToken(ctx context.Context) (string, string) {
	stored := ""
	if store, err := session.NewFileStore(""); err == nil {
		if sess, err := store.Load(ctx); err == nil {
			stored = sess.AccessToken
		}
	}
	return c.config().ResolveToken(c.token, stored)
}

// newGitHubClient builds an authenticated, cached GitHub client. The
// returned cleanup closes the cache.
func (c *CLI) newGitHubClient(ctx context.Context) (*github.Client, func(), error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}

	token, source := c.resolveToken(ctx)
	if token == "" {
		c.Logger.Debug("no GitHub token, using unauthenticated requests")
	} else {
		c.Logger.Debug("using GitHub token", "source", source)
	}

	cfg := c.config().GitHub
	client, err := github.NewClient(github.Options{
		Token:     token,
		BaseURL:   cfg.BaseURL,
		Cache:     ch,
		CacheTTL:  cfg.CacheTTL,
		CountTTL:  cfg.CountTTL,
		Refresh:   c.refresh,
		UserAgent: buildinfo.UserAgent(appName),
	})
	if err != nil {
		ch.Close()
		return nil, nil, err
	}
	return client, func() { ch.Close() }, nil
}

// isCancelled reports whether err stems from the user interrupting the command.
func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
