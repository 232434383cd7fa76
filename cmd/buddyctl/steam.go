package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/buddyctl/internal/buddy"
)

func launchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "launch APPID",
		Short:   "Launch a Steam app by id",
		GroupID: "steam",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid app id %q: %w", args[0], err)
			}
			return runResult(cmd, fmt.Sprintf("launched app %d", appID), func(ctx context.Context, ops buddy.Operations) (buddy.ResultLikeResponse, error) {
				return ops.LaunchSteamApp(ctx, appID)
			})
		},
	}
}

func closeSteamCmd() *cobra.Command {
	var grace int
	cmd := &cobra.Command{
		Use:     "close-steam",
		Short:   "Close Steam on the host",
		GroupID: "steam",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var gracePeriod *int
			if cmd.Flags().Changed("grace") {
				gracePeriod = &grace
			}
			return runResult(cmd, "steam closing", func(ctx context.Context, ops buddy.Operations) (buddy.ResultLikeResponse, error) {
				return ops.CloseSteam(ctx, gracePeriod)
			})
		},
	}
	cmd.Flags().IntVar(&grace, "grace", 0, "seconds to wait before closing (omitted: Buddy decides)")
	return cmd
}

func appsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "apps",
		Short:   "List gamestream app names",
		GroupID: "steam",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp buddy.GamestreamAppNamesResponse
			if err := withSession(cmd, func(ctx context.Context, ops buddy.Operations) error {
				var err error
				resp, err = ops.GamestreamAppNames(ctx)
				return err
			}); err != nil {
				return err
			}
			return emit(cmd, resp, func(p *printer) {
				switch {
				case resp.AppNames == nil:
					p.line("Buddy could not determine the app list")
				case len(resp.AppNames) == 0:
					p.line("no gamestream apps")
				default:
					for _, name := range resp.AppNames {
						p.line("%s", name)
					}
				}
			})
		},
	}
}

func endStreamCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "end-stream",
		Short:   "End the active gamestream session",
		GroupID: "steam",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResult(cmd, "stream ending", func(ctx context.Context, ops buddy.Operations) (buddy.ResultLikeResponse, error) {
				return ops.EndStream(ctx)
			})
		},
	}
}
