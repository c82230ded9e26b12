package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/integrations/github"
)

// developerCommand creates the developer profile command.
func (c *CLI) developerCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "developer <username>",
		Aliases: []string{"dev", "user"},
		Short:   "Show a developer's GitHub profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			if err := pkgerrors.ValidateUsername(args[0]); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			client, closeClient, err := c.newGitHubClient(ctx)
			if err != nil {
				return err
			}
			defer closeClient()

			spinner := newSpinner(ctx, "Fetching @"+args[0]+"...")
			spinner.Start()
			dev, err := client.FetchUser(ctx, args[0])
			if err != nil {
				spinner.StopWithError(pkgerrors.UserMessage(err))
				return err
			}
			spinner.Stop()

			if ok, err := writeStructured(cmd.OutOrStdout(), format, dev); ok {
				return err
			}
			printDeveloper(dev)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml")
	return cmd
}

func printDeveloper(d *github.Developer) {
	fmt.Println(StyleTitle.Render(d.Name) + " " + StyleDim.Render("@"+d.Login))
	fmt.Println(StyleDim.Render(d.Bio))
	printNewline()
	printKeyValue("Location", d.Location)
	printKeyValue("Repositories", formatCount(d.PublicRepos))
	printKeyValue("Followers", formatCount(d.Followers))
	printKeyValue("Following", formatCount(d.Following))
	if d.Blog != "" {
		printKeyValue("Blog", d.Blog)
	}
	if !d.CreatedAt.IsZero() {
		printKeyValue("Joined", d.CreatedAt.Format("Jan 2, 2006"))
	}
	printKeyValue("Profile", StyleLink.Render(d.ProfileURL))
}
