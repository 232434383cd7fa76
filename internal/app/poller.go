package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/buddyctl/internal/buddy"
	"github.com/five82/buddyctl/internal/state"
)

const defaultPollInterval = 2 * time.Second

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence. It returns immediately; the returned channel closes once the
// goroutine has exited after ctx is done.
func StartPoller(ctx context.Context, store *state.Store, host Host, interval time.Duration, logger zerolog.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			refresh(ctx, store, host, logger)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}

func refresh(ctx context.Context, store *state.Store, host Host, logger zerolog.Logger) {
	var (
		info buddy.HostInfoResponse
		pc   buddy.PcStateResponse
	)
	err := host.Do(ctx, func(ctx context.Context, ops buddy.Operations) error {
		var err error
		if info, err = ops.HostInfo(ctx); err != nil {
			return err
		}
		pc, err = ops.PcState(ctx)
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.Update(nil, nil, err)
		logger.Warn().Err(err).Msg("host status poll failed")
		return
	}
	store.Update(&info, &pc, nil)
}
