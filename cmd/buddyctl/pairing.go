package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/five82/buddyctl/internal/app"
	"github.com/five82/buddyctl/internal/buddy"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Show the Buddy API version",
		GroupID: "pairing",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			var resp buddy.APIVersionResponse
			host := app.NewHost(cfg.Buddy(), cfg.CertPath, buddy.WithLogger(log.Logger))
			if err := host.Do(cmd.Context(), func(ctx context.Context, ops buddy.Operations) error {
				resp, err = ops.APIVersion(ctx)
				return err
			}); err != nil {
				return err
			}
			return emit(cmd, resp, func(p *printer) {
				p.field("api version", resp.Version)
				p.field("supported", cfg.APIVersion)
				if resp.Version != cfg.APIVersion {
					p.fail("version mismatch")
				}
			})
		},
	}
}

func pairingStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "pairing-state",
		Short:   "Show whether this client is paired",
		GroupID: "pairing",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp buddy.PairingStateResponse
			if err := withSession(cmd, func(ctx context.Context, ops buddy.Operations) error {
				var err error
				resp, err = ops.PairingState(ctx)
				return err
			}); err != nil {
				return err
			}
			return emit(cmd, resp, func(p *printer) {
				p.field("pairing state", resp.State)
			})
		},
	}
}

func pairCmd() *cobra.Command {
	var pin int
	cmd := &cobra.Command{
		Use:     "pair",
		Short:   "Start pairing with the PIN shown on the host",
		GroupID: "pairing",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			host := app.NewHost(cfg.Buddy(), cfg.CertPath, buddy.WithLogger(log.Logger))
			status, cause := app.StartPairing(cmd.Context(), host, cfg.ClientID, cfg.APIVersion, pin)
			out := struct {
				Status app.PairingStatus `json:"status"`
				Error  string            `json:"error,omitempty"`
			}{Status: status}
			if cause != nil {
				out.Error = cause.Error()
			}
			if err := emit(cmd, out, func(p *printer) {
				switch status {
				case app.PairingStarted:
					p.ok("pairing started, confirm on the host")
				case app.AlreadyPaired:
					p.ok("already paired")
				default:
					p.fail(string(status))
				}
			}); err != nil {
				return err
			}
			switch status {
			case app.PairingStarted, app.AlreadyPaired:
				return nil
			}
			if cause != nil {
				return fmt.Errorf("pairing %s: %w", status, cause)
			}
			return fmt.Errorf("pairing %s", status)
		},
	}
	cmd.Flags().IntVar(&pin, "pin", 0, "four digit PIN displayed by Buddy")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}

func abortPairingCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "abort-pairing",
		Short:   "Cancel a pending pairing request",
		GroupID: "pairing",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResult(cmd, "pairing aborted", func(ctx context.Context, ops buddy.Operations) (buddy.ResultLikeResponse, error) {
				return ops.AbortPairing(ctx)
			})
		},
	}
}
