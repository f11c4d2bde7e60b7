// sundim - solar brightness daemon
//
// sundim continuously sets display brightness as a function of the sun's
// altitude at the machine's location. Internal panels are driven through
// brightnessctl, external monitors through ddcutil. A persisted manual
// offset lets the user bias the curve without fighting the daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := &cli.Command{
		Name:    "sundim",
		Usage:   "Set display brightness from the sun's altitude",
		Version: fmt.Sprintf("%s (%s, %s)", version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration file",
				Value:   configPath(),
			},
			&cli.IntFlag{
				Name:    "offset",
				Aliases: []string{"o"},
				Usage:   "Set the manual brightness offset (signed percent), apply once, and exit",
			},
			&cli.BoolFlag{
				Name:    "status",
				Aliases: []string{"s"},
				Usage:   "Print the current state and exit",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			switch {
			case c.Bool("status"):
				return runStatus(ctx, c.String("config"))
			case c.IsSet("offset"):
				return runOffset(ctx, c.String("config"), int(c.Int("offset")))
			default:
				return runDaemon(ctx, c.String("config"))
			}
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configPath returns the default configuration file path.
// Uses the SUNDIM_CONFIG environment variable if set.
func configPath() string {
	if path := os.Getenv("SUNDIM_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
