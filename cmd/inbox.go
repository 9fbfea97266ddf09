package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxcast/internal/config"
	"github.com/teemow/inboxcast/internal/gmail"
	"github.com/teemow/inboxcast/internal/google"
)

func newInboxCmd() *cobra.Command {
	var maxResults int64

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Print the newest Gmail inbox messages",
		Long: `Authenticate with Gmail and print a table of the newest inbox messages.

The first run opens the Google consent flow and stores the token in the
configured token file (default: token.json).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			client, err := newGmailClient(cfg, logger, out)
			if err != nil {
				return err
			}
			if err := client.Authenticate(cmd.Context()); err != nil {
				return fmt.Errorf("gmail authentication failed: %w", err)
			}
			if _, err := client.InboxSummary(cmd.Context(), out, maxResults); err != nil {
				return fmt.Errorf("failed to read inbox: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&maxResults, "max", gmail.DefaultMaxResults, "Maximum number of messages to list")
	return cmd
}

// newGmailClient builds a Gmail client from the configured credentials. The
// consent URL, when needed, is written to out.
func newGmailClient(cfg *config.Config, logger *slog.Logger, out io.Writer) (*gmail.Client, error) {
	oauthCfg, err := google.OAuthConfig(cfg.Gmail.CredentialsFile)
	if err != nil {
		return nil, err
	}

	authorizer := &google.Authorizer{
		Config: oauthCfg,
		Tokens: google.NewTokenFile(cfg.Gmail.TokenFile),
		Consent: google.LoopbackConsent(func(authURL string) {
			fmt.Fprintf(out, "Open the following URL in your browser to authorize Gmail access:\n\n  %s\n\n", authURL)
		}),
		Logger: logger,
	}
	return gmail.NewClient(authorizer, gmail.WithLogger(logger)), nil
}
