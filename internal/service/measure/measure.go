package measure

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/oshokin/intrusion-alarm/internal/device/sonar"
	"github.com/oshokin/intrusion-alarm/internal/domain/intrusion"
	"github.com/oshokin/intrusion-alarm/internal/hardware"
	"github.com/oshokin/intrusion-alarm/internal/logger"
	"github.com/oshokin/intrusion-alarm/internal/service/common"
	"github.com/oshokin/intrusion-alarm/internal/service/guard"
)

const (
	// DefaultSamples is the number of readings taken when none is requested.
	DefaultSamples = 10
	// DefaultInterval is the pause between two readings.
	DefaultInterval = 500 * time.Millisecond
)

// Options controls the calibration run.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file; empty uses built-in defaults.
	ConfigPath string
	// LogLevel overrides the configured log level when not empty.
	LogLevel string
	// Samples is the number of readings to take.
	Samples int
	// Interval is the pause between two readings.
	Interval time.Duration
}

// Ranger measures one distance.
type Ranger interface {
	Measure(ctx context.Context) (intrusion.Reading, error)
}

// Summary aggregates a calibration run.
type Summary struct {
	// Taken is the number of completed readings.
	Taken int
	// Echoes is the number of readings that returned an echo.
	Echoes int
	// Within is the number of echoes closer than the threshold.
	Within int
	// Nearest is the shortest echo distance in centimeters.
	Nearest float64
	// Farthest is the longest echo distance in centimeters.
	Farthest float64
	// Mean is the average echo distance in centimeters.
	Mean float64
}

// Run opens the GPIO lines, samples the rangefinder and logs a summary.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "measure")

	cfg, err := guard.Prepare(&guard.Options{
		ConfigPath: opts.ConfigPath,
		LogLevel:   opts.LogLevel,
	})
	if err != nil {
		return err
	}

	if err := common.EnsureSingleInstance(); err != nil {
		return fmt.Errorf("check running instances: %w", err)
	}

	lines, err := hardware.Open(cfg.Pins, guard.BuzzerFrequency(cfg))
	if err != nil {
		return fmt.Errorf("open hardware: %w", err)
	}

	defer func() {
		if err := lines.Halt(); err != nil {
			logger.ErrorKV(ctx, "Unable to release GPIO lines", "error", err)
		}
	}()

	ctx = logger.WithKV(ctx, "threshold_cm", cfg.DistanceThresholdCM)
	logger.Debugf(ctx, "Sampling %d readings every %s, echo timeout %s", opts.Samples, opts.Interval, cfg.EchoTimeout)

	sampler := NewSampler(
		sonar.New(lines.Trigger, lines.Echo, sonar.WithEchoTimeout(cfg.EchoTimeout)),
		cfg.DistanceThresholdCM,
	)

	summary, err := sampler.Sample(ctx, opts.Samples, opts.Interval)
	if err != nil && ctx.Err() == nil {
		return err
	}

	logger.InfoKV(
		ctx,
		"Calibration finished",
		"samples", summary.Taken,
		"echoes", summary.Echoes,
		"within_threshold", summary.Within,
		"nearest_cm", fmt.Sprintf("%.2f", summary.Nearest),
		"farthest_cm", fmt.Sprintf("%.2f", summary.Farthest),
		"mean_cm", fmt.Sprintf("%.2f", summary.Mean),
	)

	return nil
}

// Sampler takes a series of readings from a ranger.
type Sampler struct {
	// ranger is the measured sensor.
	ranger Ranger
	// thresholdCM is the confirmation distance the readings are compared with.
	thresholdCM float64
	// clock paces the readings.
	clock clockz.Clock
}

// SamplerOption customises a Sampler.
type SamplerOption func(*Sampler)

// WithClock sets the clock used between readings.
func WithClock(clock clockz.Clock) SamplerOption {
	return func(s *Sampler) {
		s.clock = clock
	}
}

// NewSampler creates a sampler comparing readings with thresholdCM.
func NewSampler(ranger Ranger, thresholdCM float64, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		ranger:      ranger,
		thresholdCM: thresholdCM,
		clock:       clockz.RealClock,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Sample takes count readings, interval apart, logging each one.
// A non-positive count falls back to DefaultSamples.
// The summary covers the readings completed before an error or cancellation.
func (s *Sampler) Sample(ctx context.Context, count int, interval time.Duration) (Summary, error) {
	if count <= 0 {
		count = DefaultSamples
	}

	var (
		summary Summary
		total   float64
	)

	for i := range count {
		if i > 0 {
			if err := s.wait(ctx, interval); err != nil {
				return summary, err
			}
		}

		reading, err := s.ranger.Measure(ctx)
		if err != nil {
			return summary, fmt.Errorf("measure distance: %w", err)
		}

		summary.Taken++

		within := reading.Within(s.thresholdCM)

		logger.InfoKV(
			ctx,
			"Distance",
			"sample", i+1,
			"reading", reading.String(),
			"within_threshold", within,
		)

		if !reading.Present() {
			continue
		}

		cm := reading.Centimeters()
		if summary.Echoes == 0 || cm < summary.Nearest {
			summary.Nearest = cm
		}

		if cm > summary.Farthest {
			summary.Farthest = cm
		}

		summary.Echoes++
		total += cm

		if within {
			summary.Within++
		}
	}

	if summary.Echoes > 0 {
		summary.Mean = total / float64(summary.Echoes)
	}

	return summary, nil
}

// wait pauses for interval or until ctx is canceled.
func (s *Sampler) wait(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ctx.Err()
	}

	timer := s.clock.NewTimer(interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}
