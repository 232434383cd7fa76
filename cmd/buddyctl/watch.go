package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/five82/buddyctl/internal/app"
	"github.com/five82/buddyctl/internal/buddy"
	"github.com/five82/buddyctl/internal/config"
	"github.com/five82/buddyctl/internal/prefs"
)

const defaultActivityLog = "~/.local/state/buddyctl/watch.log"

func watchCmd() *cobra.Command {
	var (
		poll        time.Duration
		metricsAddr string
		activityLog string
	)
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Live dashboard of the host with quick actions",
		GroupID: "host",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logPath, logFile, err := openActivityLog(activityLog)
			if err != nil {
				return err
			}
			defer logFile.Close()
			logger := zerolog.New(logFile).Level(logLevel()).With().Timestamp().Logger()

			buddyOpts := []buddy.Option{buddy.WithLogger(logger)}
			if metricsAddr != "" {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector())
				buddyOpts = append(buddyOpts, buddy.WithMetrics(buddy.NewMetrics(reg)))
				stop := serveMetrics(cmd.Context(), metricsAddr, reg, logger)
				defer stop()
			}

			userPrefs, _ := prefs.Load(prefsFile)
			return app.Run(cmd.Context(), app.Options{
				Config:       cfg,
				PrefsPath:    prefsFile,
				ThemeName:    userPrefs.Theme,
				PollEvery:    poll,
				ActivityPath: logPath,
				Logger:       logger,
				BuddyOptions: buddyOpts,
			})
		},
	}
	cmd.Flags().DurationVar(&poll, "poll", 2*time.Second, "host status refresh interval")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9464)")
	cmd.Flags().StringVar(&activityLog, "activity-log", defaultActivityLog, "file receiving dashboard logs")
	return cmd
}

func openActivityLog(path string) (string, *os.File, error) {
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", nil, fmt.Errorf("create activity log dir: %w", err)
	}
	file, err := os.OpenFile(resolved, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", nil, fmt.Errorf("open activity log: %w", err)
	}
	return resolved, file, nil
}

// serveMetrics exposes reg on addr until ctx ends or the returned stop runs.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger zerolog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	logger.Info().Str("addr", addr).Msg("serving metrics")

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return func() { close(done) }
}
