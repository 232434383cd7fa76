package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/five82/buddyctl/internal/app"
	"github.com/five82/buddyctl/internal/buddy"
	"github.com/five82/buddyctl/internal/config"
	"github.com/five82/buddyctl/internal/prefs"
)

var errRejected = errors.New("buddy rejected the request")

// loadConfig resolves the effective config: env file, config file, env
// overrides, then the persisted client id when none was configured.
func loadConfig() (config.Config, error) {
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.ClientID == "" {
		id, err := prefs.EnsureClientID(prefsFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg.ClientID = id
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// withSession runs fn inside one buddy scope built from the effective config.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, ops buddy.Operations) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	host := app.NewHost(cfg.Buddy(), cfg.CertPath, buddy.WithLogger(log.Logger))
	return host.Do(cmd.Context(), fn)
}

// runResult runs a command endpoint and reports its result flag.
func runResult(cmd *cobra.Command, what string, fn func(ctx context.Context, ops buddy.Operations) (buddy.ResultLikeResponse, error)) error {
	var resp buddy.ResultLikeResponse
	err := withSession(cmd, func(ctx context.Context, ops buddy.Operations) error {
		var err error
		resp, err = fn(ctx, ops)
		return err
	})
	if err != nil {
		return err
	}
	if err := emit(cmd, resp, func(p *printer) {
		if resp.Result {
			p.ok(what)
		} else {
			p.fail(what)
		}
	}); err != nil {
		return err
	}
	if !resp.Result {
		return errRejected
	}
	return nil
}
