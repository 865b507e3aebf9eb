package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/lifeos/internal/app"
)

func newMigrateCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema (SQL migrations or Mongo indexes)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withContainer(cmd, func(c *app.Container) error {
				if err := c.Migrate(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", state.cfg.DBDriver)
				return nil
			})
		},
	}
}
