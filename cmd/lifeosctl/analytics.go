package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/lifeos/internal/app"
	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

func newAnalyticsCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analytics",
		Short:   "Compute productivity reports for a user",
		Aliases: []string{"stats"},
	}
	cmd.AddCommand(newDailyCmd(state), newWeeklyCmd(state))
	return cmd
}

func newDailyCmd(state *cliState) *cobra.Command {
	var userID, date string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Score a single day (default today, UTC)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withContainer(cmd, func(c *app.Container) error {
				if date == "" {
					date = domain.FormatDate(time.Now())
				}
				stats, err := c.Analytics.Daily(cmd.Context(), userID, date)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), stats)
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newWeeklyCmd(state *cliState) *cobra.Command {
	var userID, end string

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Aggregate the seven days ending at --end (default today, UTC)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withContainer(cmd, func(c *app.Container) error {
				weekly, err := c.Analytics.Weekly(cmd.Context(), userID, end)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), weekly)
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&end, "end", "", "YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newOptimizeCmd(state *cliState) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run the recommendation rules for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withContainer(cmd, func(c *app.Container) error {
				result, err := c.Optimization.Optimize(cmd.Context(), userID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
