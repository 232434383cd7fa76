package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/buddyctl/internal/buddy"
	"github.com/five82/buddyctl/internal/config"
	"github.com/five82/buddyctl/internal/state"
	"github.com/five82/buddyctl/internal/ui"
)

// Options configure the watch dashboard.
type Options struct {
	Config       config.Config
	PrefsPath    string // empty uses default ~/.config/buddyctl/prefs.toml
	ThemeName    string
	PollEvery    time.Duration // zero uses default
	ActivityPath string        // where Logger writes, shown in the dashboard
	Logger       zerolog.Logger
	BuddyOptions []buddy.Option
}

// Run boots the watch TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	if err := opts.Config.Validate(); err != nil {
		return err
	}
	host := NewHost(opts.Config.Buddy(), opts.Config.CertPath, opts.BuddyOptions...)
	return run(ctx, host, opts, ui.Run)
}

// run wires the store, poller and dashboard around host. The poller has
// exited by the time run returns, so nothing writes to opts.Logger after.
func run(ctx context.Context, host Host, opts Options, dashboard func(ui.Options) error) error {
	ctx, cancel := context.WithCancel(ctx)
	store := &state.Store{}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = opts.PollEvery
	}

	// Start background poller
	pollerDone := StartPoller(ctx, store, host, interval, opts.Logger)
	defer func() {
		cancel()
		<-pollerDone
	}()

	ctrl := &controller{host: host, store: store, log: opts.Logger}
	uiOpts := ui.Options{
		Context:      ctx,
		Controller:   ctrl,
		Store:        store,
		Address:      opts.Config.Address,
		PollTick:     interval,
		ThemeName:    opts.ThemeName,
		PrefsPath:    opts.PrefsPath,
		ActivityPath: opts.ActivityPath,
	}
	if err := dashboard(uiOpts); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

type controller struct {
	host  Host
	store *state.Store
	log   zerolog.Logger
}

var _ ui.Controller = (*controller)(nil)

func (c *controller) Refresh(ctx context.Context) {
	refresh(ctx, c.store, c.host, c.log)
}

func (c *controller) EndStream(ctx context.Context) error {
	return c.command(ctx, "end stream", func(ctx context.Context, ops buddy.Operations) (buddy.ResultLikeResponse, error) {
		return ops.EndStream(ctx)
	})
}

func (c *controller) CloseSteam(ctx context.Context) error {
	return c.command(ctx, "close steam", func(ctx context.Context, ops buddy.Operations) (buddy.ResultLikeResponse, error) {
		return ops.CloseSteam(ctx, nil)
	})
}

func (c *controller) RestoreResolution(ctx context.Context) error {
	return c.command(ctx, "restore resolution", func(ctx context.Context, ops buddy.Operations) (buddy.ResultLikeResponse, error) {
		return ops.RestoreResolution(ctx, false)
	})
}

func (c *controller) AppNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.host.Do(ctx, func(ctx context.Context, ops buddy.Operations) error {
		resp, err := ops.GamestreamAppNames(ctx)
		if err != nil {
			return err
		}
		names = resp.AppNames
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list gamestream apps: %w", err)
	}
	return names, nil
}

func (c *controller) command(ctx context.Context, name string, fn func(context.Context, buddy.Operations) (buddy.ResultLikeResponse, error)) error {
	err := c.host.Do(ctx, func(ctx context.Context, ops buddy.Operations) error {
		resp, err := fn(ctx, ops)
		if err != nil {
			return err
		}
		if !resp.Result {
			return fmt.Errorf("buddy rejected request")
		}
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Str("action", name).Msg("dashboard action failed")
		return fmt.Errorf("%s: %w", name, err)
	}
	c.log.Info().Str("action", name).Msg("dashboard action done")
	// Reflect the change without waiting for the next tick.
	refresh(ctx, c.store, c.host, c.log)
	return nil
}
