package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/integrations/github"
	"github.com/matzehuels/devpulse/pkg/session"
)

// authCommand creates the auth command with subcommands.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored GitHub token",
		Long: `Store a GitHub personal access token for later commands.

A token raises the search quota from 10 to 30 requests per minute. It needs
no scopes. The token is kept in ~/.config/devpulse/session.json; --token and
GITHUB_TOKEN take precedence over it.`,
	}

	cmd.AddCommand(c.authLoginCommand())
	cmd.AddCommand(c.authLogoutCommand())
	cmd.AddCommand(c.authStatusCommand())

	return cmd
}

func (c *CLI) authLoginCommand() *cobra.Command {
	var (
		token     string
		withToken bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify and store a GitHub token",
		Example: `  devpulse auth login --token ghp_xxx
  echo "$TOKEN" | devpulse auth login --with-token`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if withToken {
				t, err := readToken(cmd.InOrStdin())
				if err != nil {
					return err
				}
				token = t
			}
			if token == "" {
				return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "no token given (use --token or --with-token)")
			}
			return c.runLogin(cmd.Context(), token)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "personal access token")
	cmd.Flags().BoolVar(&withToken, "with-token", false, "read the token from standard input")
	cmd.MarkFlagsMutuallyExclusive("token", "with-token")

	return cmd
}

func (c *CLI) runLogin(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	user, err := c.verifyToken(ctx, token)
	if err != nil {
		return err
	}

	store, err := session.NewFileStore("")
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	if err := store.Save(ctx, session.New(token, user, session.DefaultTTL)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	printSuccess("Logged in as @%s", user.Login)
	printDetail("Token stored in %s", store.Path())
	return nil
}

// verifyToken checks token against GET /user, bypassing the cache.
func (c *CLI) verifyToken(ctx context.Context, token string) (*github.User, error) {
	client, err := github.NewClient(github.Options{
		Token:   token,
		BaseURL: c.config().GitHub.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	spinner := newSpinner(ctx, "Verifying token...")
	spinner.Start()
	user, err := client.FetchAuthenticatedUser(ctx)
	if err != nil {
		spinner.StopWithError("Token rejected")
		return nil, fmt.Errorf("verify token: %w", err)
	}
	spinner.Stop()
	return user, nil
}

func (c *CLI) authLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored GitHub token",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewFileStore("")
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			if err := store.Delete(cmd.Context()); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

func (c *CLI) authStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which token is in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			token, source := c.resolveToken(ctx)
			if token == "" {
				printInfo("Not logged in, requests are unauthenticated")
				printNextStep("Log in with", "devpulse auth login --token <token>")
				return nil
			}

			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			user, err := c.verifyToken(ctx, token)
			if err != nil {
				return err
			}

			printSuccess("GitHub token valid")
			printKeyValue("Username", "@"+user.Login)
			if user.Name != "" {
				printKeyValue("Name", user.Name)
			}
			printKeyValue("Source", source)
			if source == "session" {
				if store, err := session.NewFileStore(""); err == nil {
					if sess, err := store.Load(ctx); err == nil {
						printKeyValue("Logged in", sess.CreatedAt.Format("Jan 2, 2006"))
						printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006"))
					}
				}
			}
			return nil
		},
	}
}

// readToken reads the first non-empty line from r.
func readToken(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return "", errors.New("no token on standard input")
}
