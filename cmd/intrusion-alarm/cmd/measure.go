package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/intrusion-alarm/internal/service/measure"
)

var (
	// samples is the number of readings to take.
	samples int
	// interval is the pause between readings.
	interval time.Duration

	// measureCmd samples the rangefinder to help choose the distance threshold.
	measureCmd = &cobra.Command{
		Use:   "measure",
		Short: "Sample the rangefinder and log distances.",
		Long: `Takes a series of ultrasonic rangefinder readings and logs each distance
together with whether it falls under the configured threshold.

Run it with the controller stopped: both use the same GPIO lines.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &measure.Options{
				ConfigPath: cfgPath,
				LogLevel:   logLevel,
				Samples:    samples,
				Interval:   interval,
			}

			return measure.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	measureCmd.Flags().IntVarP(&samples, "samples", "n", measure.DefaultSamples, "number of readings")
	measureCmd.Flags().DurationVarP(&interval, "interval", "i", measure.DefaultInterval, "pause between readings")
}
