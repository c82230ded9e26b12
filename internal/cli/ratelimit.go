package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// rateLimitCommand shows the remaining GitHub API quota.
func (c *CLI) rateLimitCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Show the remaining GitHub API quota",
		Long: `Show the remaining GitHub API quota.

A language ranking costs one search request per language. Unauthenticated
clients get 10 search requests per minute, authenticated ones 30.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			client, closeClient, err := c.newGitHubClient(ctx)
			if err != nil {
				return err
			}
			defer closeClient()

			limits, err := client.RateLimit(ctx)
			if err != nil {
				return err
			}
			if ok, err := writeStructured(cmd.OutOrStdout(), format, limits); ok {
				return err
			}

			fmt.Println(StyleTitle.Render("GitHub API Quota"))
			printKeyValue("Search", fmt.Sprintf("%d/%d, resets %s", limits.Search.Remaining, limits.Search.Limit, limits.Search.Reset.Format("15:04:05")))
			printKeyValue("Core", fmt.Sprintf("%d/%d, resets %s", limits.Core.Remaining, limits.Core.Limit, limits.Core.Reset.Format("15:04:05")))
			if limits.Search.Remaining == 0 {
				printWarning("Search quota exhausted, language rankings will fail until reset")
			}
			if token, _ := c.resolveToken(ctx); token == "" {
				printNextStep("Raise the limit by logging in", "devpulse auth login --token <token>")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml")
	return cmd
}
