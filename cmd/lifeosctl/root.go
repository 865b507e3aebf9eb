package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/lifeos/internal/app"
	"github.com/comitanigiacomo/lifeos/internal/config"
)

type cliState struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	state := &cliState{}
	var verbose bool

	root := &cobra.Command{
		Use:   "lifeosctl",
		Short: "LifeOS operator tool",
		Long: `lifeosctl talks to the LifeOS store directly, using the same
environment variables (or .env file) as the API server.

Examples:
  lifeosctl migrate
  lifeosctl token --subject auth0|123 --email me@example.com
  lifeosctl analytics weekly --user <id> --end 2024-03-04
  lifeosctl optimize --user <id>`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if verbose {
				cfg.LogLevel = "debug"
			}
			state.cfg = cfg
			state.logger = app.NewLogger(cfg, cmd.ErrOrStderr())
			slog.SetDefault(state.logger)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newMigrateCmd(state),
		newTokenCmd(state),
		newAnalyticsCmd(state),
		newOptimizeCmd(state),
	)
	return root
}

// withContainer opens the store for a single command and closes it afterwards.
func (s *cliState) withContainer(cmd *cobra.Command, fn func(c *app.Container) error) error {
	c, err := app.New(cmd.Context(), s.cfg, s.logger)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
