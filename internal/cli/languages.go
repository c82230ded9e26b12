package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/popularity"
)

type languagesOptions struct {
	languages   []string
	minStars    int
	concurrency int
	format      string
}

// languagesCommand creates the language popularity command.
func (c *CLI) languagesCommand() *cobra.Command {
	var opts languagesOptions

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "Rank languages by number of popular repositories",
		Long: `Rank programming languages by how many GitHub repositories use them.

For each language, DevPulse counts the repositories with more than --min-stars
stars and shows each language's share of the combined total. Shares are
rounded individually and may not add up to exactly 100%.`,
		Example: `  devpulse languages
  devpulse languages --lang Go --lang Rust --lang Zig
  devpulse languages --concurrency 4 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			cfg := c.config().PopularityConfig()
			if cmd.Flags().Changed("lang") {
				cfg.Languages = opts.languages
			}
			if cmd.Flags().Changed("min-stars") {
				cfg.MinimumStars = opts.minStars
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Concurrency = opts.concurrency
			}
			return c.runLanguages(cmd, cfg, opts.format)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.languages, "lang", "l", nil, "language to rank (repeatable, default from config)")
	cmd.Flags().IntVar(&opts.minStars, "min-stars", popularity.DefaultMinimumStars, "only count repositories with more stars than this")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 1, "parallel count queries (1 = sequential)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "output format: table, json, yaml")

	return cmd
}

func (c *CLI) runLanguages(cmd *cobra.Command, cfg popularity.Config, format string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.WithDefaults()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	client, closeClient, err := c.newGitHubClient(ctx)
	if err != nil {
		return err
	}
	defer closeClient()

	spinner := newSpinner(ctx, fmt.Sprintf("Counting repositories for %d languages...", len(cfg.Languages)))
	restore := installHooks(c.Logger, spinner)
	defer restore()

	prog := newProgress(c.Logger)
	spinner.Start()
	results, err := popularity.NewAggregator(c.Logger).Aggregate(ctx, client, cfg)
	if err != nil {
		if isCancelled(err) {
			spinner.Stop()
			return err
		}
		spinner.StopWithError(pkgerrors.UserMessage(err))
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Ranked %d languages", len(results)))

	w := cmd.OutOrStdout()
	if ok, err := writeStructured(w, format, results); ok {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Language Popularity"))
	fprintDetail(w, "Repositories with more than %s stars", formatCount(cfg.MinimumStars))
	fmt.Fprintln(w)
	fmt.Fprint(w, renderLanguageBars(results, c.config().Popularity.Palette, barWidth))
	fmt.Fprintln(w)
	fprintDetail(w, "Total: %s repositories", formatCount(popularity.Total(results)))
	return nil
}
