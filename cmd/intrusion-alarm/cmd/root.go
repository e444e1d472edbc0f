package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/intrusion-alarm/internal/service/guard"
	"github.com/oshokin/intrusion-alarm/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// logLevel overrides the configured log level.
	logLevel string
	// preemptibleDisarm lets the button cut the alarm short.
	preemptibleDisarm bool

	// rootCmd represents the base command running the controller.
	rootCmd = &cobra.Command{
		Use:   "intrusion-alarm",
		Short: "Intrusion detection and alert controller.",
		Long: `Runs the intrusion detection controller on a single-board computer.

A push button arms and disarms the system. While armed, motion reported by the
PIR sensor is confirmed with the ultrasonic rangefinder; an object closer than
the configured threshold raises the alarm: red indicator and buzzer for the
configured duration, after which the system is armed again.

Without a configuration file the built-in pin map and timings are used.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &guard.Options{
				ConfigPath:        cfgPath,
				LogLevel:          logLevel,
				PreemptibleDisarm: preemptibleDisarm,
			}

			return guard.Run(ctx, options)
		},
	}
)

// Execute runs the intrusion-alarm CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(measureCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to configuration file (built-in defaults when empty)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level override: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&preemptibleDisarm, "preemptible-disarm", false, "let the button end an alarm before it expires")
}
