// Command waitfor blocks until the portal's infrastructure dependencies are
// reachable, then replaces itself with the wrapped command:
//
//	waitfor jobgrid serve
//
// All arguments are forwarded verbatim. Dependencies are declared in a TOML
// file (WAITFOR_CONFIG, default /etc/waitfor.toml); without one, the gate
// waits for the cache on redis:6379 and the search service's cluster-health
// endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobgrid/jobgrid/internal/gate"
)

// exitUnavailable is returned when a dependency's retry budget is exhausted
// (EX_UNAVAILABLE), distinct from the wrapped command's own exit codes.
const exitUnavailable = 69

func defaultConfigPath() string {
	if p := os.Getenv("WAITFOR_CONFIG"); p != "" {
		return p
	}
	return "/etc/waitfor.toml"
}

var rootCmd = &cobra.Command{
	Use:   "waitfor <command> [args...]",
	Short: "Wait for service dependencies, then exec the given command",
	Args:  cobra.MinimumNArgs(1),
	// The wrapped command's flags are not ours to parse.
	DisableFlagParsing: true,
	SilenceUsage:       true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := gate.LoadConfig(defaultConfigPath())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g := gate.New(cfg.Build())
		if cfg.Concurrent {
			err = g.RunConcurrent(ctx)
		} else {
			err = g.Run(ctx)
		}
		if err != nil {
			var ue *gate.UnreachableError
			if errors.As(err, &ue) {
				fmt.Fprintln(os.Stderr, ue)
				os.Exit(exitUnavailable)
			}
			return err
		}

		// Replaces the process image; only returns on failure to launch.
		return gate.Handoff(args)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
