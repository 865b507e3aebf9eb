package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
	"github.com/comitanigiacomo/lifeos/internal/core/services"
)

func newTokenCmd(state *cliState) *cobra.Command {
	var (
		identity domain.Identity
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with AUTH_SECRET",
		Long: `Mint a bearer token for local development. The API accepts it the
same way it accepts tokens from the identity provider.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens := services.NewTokenService(state.cfg.AuthSecret, state.cfg.AuthIssuer, state.cfg.AuthAudience, ttl)
			token, err := tokens.GenerateToken(identity)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&identity.Subject, "subject", "", "identity provider subject (required)")
	cmd.Flags().StringVar(&identity.Email, "email", "", "email claim")
	cmd.Flags().StringVar(&identity.Name, "name", "", "display name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
