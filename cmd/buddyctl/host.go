package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/buddyctl/internal/buddy"
)

func pcStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "pc-state",
		Short:   "Show the host power state",
		GroupID: "host",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp buddy.PcStateResponse
			if err := withSession(cmd, func(ctx context.Context, ops buddy.Operations) error {
				var err error
				resp, err = ops.PcState(ctx)
				return err
			}); err != nil {
				return err
			}
			return emit(cmd, resp, func(p *printer) {
				p.field("pc state", resp.State)
			})
		},
	}
}

func pcCmd() *cobra.Command {
	var grace int
	cmd := &cobra.Command{
		Use:       "pc restart|shutdown|suspend",
		Short:     "Restart, shut down or suspend the host",
		GroupID:   "host",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"restart", "shutdown", "suspend"},
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := args[0]
			change, err := buddy.ParsePcStateChange(strings.ToUpper(arg[:1]) + arg[1:])
			if err != nil {
				return err
			}
			return runResult(cmd, fmt.Sprintf("%s requested", arg), func(ctx context.Context, ops buddy.Operations) (buddy.ResultLikeResponse, error) {
				return ops.ChangePcState(ctx, change, grace)
			})
		},
	}
	cmd.Flags().IntVar(&grace, "grace", 10, "seconds before the transition")
	return cmd
}

func resolutionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resolution",
		Short:   "Change or restore the host display resolution",
		GroupID: "host",
	}

	var setManual bool
	set := &cobra.Command{
		Use:   "set WIDTH HEIGHT",
		Short: "Change the display resolution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid width %q: %w", args[0], err)
			}
			height, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid height %q: %w", args[1], err)
			}
			return runResult(cmd, fmt.Sprintf("resolution set to %dx%d", width, height), func(ctx context.Context, ops buddy.Operations) (buddy.ResultLikeResponse, error) {
				return ops.ChangeResolution(ctx, width, height, setManual)
			})
		},
	}
	set.Flags().BoolVar(&setManual, "manual", false, "mark the change as user initiated")

	var restoreManual bool
	restore := &cobra.Command{
		Use:   "restore",
		Short: "Restore the original display resolution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResult(cmd, "resolution restored", func(ctx context.Context, ops buddy.Operations) (buddy.ResultLikeResponse, error) {
				return ops.RestoreResolution(ctx, restoreManual)
			})
		},
	}
	restore.Flags().BoolVar(&restoreManual, "manual", false, "mark the change as user initiated")

	cmd.AddCommand(set, restore)
	return cmd
}

func hostInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "host-info",
		Short:   "Show Steam and stream status on the host",
		GroupID: "host",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp buddy.HostInfoResponse
			if err := withSession(cmd, func(ctx context.Context, ops buddy.Operations) error {
				var err error
				resp, err = ops.HostInfo(ctx)
				return err
			}); err != nil {
				return err
			}
			return emit(cmd, resp, func(p *printer) {
				p.field("steam running", resp.SteamIsRunning)
				p.field("running app", resp.SteamRunningAppID)
				if resp.SteamTrackedUpdatingAppID != nil {
					p.field("updating app", *resp.SteamTrackedUpdatingAppID)
				} else {
					p.field("updating app", "-")
				}
				p.field("stream state", resp.StreamState)
			})
		},
	}
}
