package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/integrations/github"
)

// trendingCommand creates the trending repositories command.
func (c *CLI) trendingCommand() *cobra.Command {
	var (
		language string
		limit    int
		minStars int
		format   string
	)

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List the most-starred repositories",
		Example: `  devpulse trending
  devpulse trending --language rust --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			q := github.TrendingQuery{
				Language: language,
				MinStars: c.config().Trending.MinStars,
				PerPage:  c.config().Trending.PerPage,
			}
			if cmd.Flags().Changed("limit") {
				q.PerPage = limit
			}
			if cmd.Flags().Changed("min-stars") {
				q.MinStars = minStars
			}
			return c.runTrending(cmd, q, format)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "all", "language filter, or \"all\"")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of repositories (max 100)")
	cmd.Flags().IntVar(&minStars, "min-stars", 1000, "only list repositories with more stars than this")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml")

	return cmd
}

func (c *CLI) runTrending(cmd *cobra.Command, q github.TrendingQuery, format string) error {
	if q.PerPage < 1 || q.PerPage > 100 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "limit must be between 1 and 100")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	client, closeClient, err := c.newGitHubClient(ctx)
	if err != nil {
		return err
	}
	defer closeClient()

	spinner := newSpinner(ctx, "Fetching trending repositories...")
	spinner.Start()
	repos, err := client.SearchTrending(ctx, q)
	if err != nil {
		spinner.StopWithError("Failed to fetch trending repositories")
		return err
	}
	spinner.Stop()

	if ok, err := writeStructured(cmd.OutOrStdout(), format, repos); ok {
		return err
	}

	if len(repos) == 0 {
		printInfo("No repositories found")
		return nil
	}
	title := "Trending Repositories"
	if l := strings.TrimSpace(q.Language); l != "" && !strings.EqualFold(l, "all") {
		title += " · " + l
	}
	fmt.Println(StyleTitle.Render(title))
	fmt.Fprintln(cmd.OutOrStdout(), renderRepoTable(repos))
	return nil
}

// renderRepoTable renders repositories as a bordered table.
func renderRepoTable(repos []github.Repository) string {
	rows := make([][]string, len(repos))
	for i, r := range repos {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			r.FullName,
			r.Language,
			iconStar + " " + formatCompact(r.Stars),
			formatCompact(r.Forks),
			truncate(r.Description, 50),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Repository", "Language", "Stars", "Forks", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			switch col {
			case 1:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case 3:
				return StyleStars
			case 5:
				return StyleDim
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}
