package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/devpulse/internal/api"
	"github.com/matzehuels/devpulse/pkg/config"
	"github.com/matzehuels/devpulse/pkg/store"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the DevPulse HTTP API",
		Long: `Serve trending repositories, developer profiles and the language ranking
as JSON.

Every successful ranking is recorded and available from
/api/languages/history. With [server] history = "mongo" the history is kept
in MongoDB; with [cache] backend = "redis" API responses are shared by all
instances.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			client, closeClient, err := c.newGitHubClient(ctx)
			if err != nil {
				return err
			}
			defer closeClient()

			history, err := c.openHistory(ctx, cfg.Server)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := history.Close(closeCtx); err != nil {
					c.Logger.Warn("close history store", "error", err)
				}
			}()

			srv, err := api.NewServer(api.Options{
				Source: client,
				Store:  history,
				Config: cfg,
				Logger: c.Logger,
			})
			if err != nil {
				return err
			}
			return srv.Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// openHistory opens the snapshot store selected by [server] history.
func (c *CLI) openHistory(ctx context.Context, cfg config.Server) (store.Store, error) {
	if cfg.History != config.HistoryMongo {
		return store.NewMemoryStore(cfg.HistoryLimit), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	ms, err := store.NewMongoStore(connectCtx, store.MongoConfig{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	c.Logger.Info("recording history in mongo", "database", cfg.MongoDatabase)
	return ms, nil
}
