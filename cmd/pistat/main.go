package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pistat/internal/commands"
)

// VERSION is set during build via ldflags.
var VERSION string

func getCurrentVersion() string {
	if VERSION != "" {
		return VERSION
	}
	return "dev"
}

func main() {
	commands.GetCurrentVersion = getCurrentVersion

	rootCmd := &cobra.Command{
		Use:   "pistat",
		Short: "Single-host telemetry endpoint",
		Long: `pistat samples local hardware and OS metrics (CPU, memory, disk,
GPU, power, network, processes, hardware identity) and serves them as
JSON over HTTP with short-lived caching and per-client rate limiting.

Configuration (environment variables, all optional):
  PISTAT_HOST                      bind address (default 0.0.0.0)
  PISTAT_PORT                      listen port (default 8585)
  PISTAT_CACHE_SECONDS             snapshot cache TTL (default 2)
  PISTAT_DEBUG                     verbose console logging (default false)
  PISTAT_LOG_LEVEL                 debug|info|warn|error (default info)
  PISTAT_RATELIMIT_ENABLED         per-client rate limiting (default true)
  PISTAT_RATELIMIT_REQUESTS        requests per window (default 30)
  PISTAT_RATELIMIT_WINDOW_SECONDS  window length (default 60)`,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(
		commands.NewServeCmd(),
		commands.NewStatusCmd(),
		commands.NewVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
