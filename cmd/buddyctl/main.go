// Package main is the CLI entry point for buddyctl.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	envFile   string
	prefsFile string
	jsonOut   bool
	verbose   bool
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "buddyctl",
		Short: "Control a MoonDeck Buddy host from the terminal",
		Long: `buddyctl talks to the Buddy companion service on a gaming PC over HTTPS
with a pinned certificate. It can pair, launch and close Steam, change the
power state and display resolution, and watch the host live.`,
		SilenceUsage: true,
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		setupLogging(cmd.ErrOrStderr())
		return nil
	}

	root.PersistentFlags().
		StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.config/buddyctl/config.toml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "load BUDDY_* variables from this file first")
	root.PersistentFlags().StringVar(&prefsFile, "prefs", "", "prefs file holding the client id (default: ~/.config/buddyctl/prefs.toml)")
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "print raw responses as JSON")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddGroup(
		&cobra.Group{ID: "pairing", Title: "Pairing:"},
		&cobra.Group{ID: "steam", Title: "Steam:"},
		&cobra.Group{ID: "host", Title: "Host:"},
	)

	root.AddCommand(versionCmd())
	root.AddCommand(pairingStateCmd())
	root.AddCommand(pairCmd())
	root.AddCommand(abortPairingCmd())
	root.AddCommand(launchCmd())
	root.AddCommand(closeSteamCmd())
	root.AddCommand(appsCmd())
	root.AddCommand(endStreamCmd())
	root.AddCommand(pcStateCmd())
	root.AddCommand(pcCmd())
	root.AddCommand(resolutionCmd())
	root.AddCommand(hostInfoCmd())
	root.AddCommand(watchCmd())

	return root
}
