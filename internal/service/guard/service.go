package guard

import (
	"context"
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"

	"github.com/oshokin/intrusion-alarm/internal/config"
	"github.com/oshokin/intrusion-alarm/internal/device/indicator"
	"github.com/oshokin/intrusion-alarm/internal/device/sonar"
	"github.com/oshokin/intrusion-alarm/internal/hardware"
	"github.com/oshokin/intrusion-alarm/internal/logger"
	"github.com/oshokin/intrusion-alarm/internal/service/common"
	"github.com/oshokin/intrusion-alarm/internal/version"
)

// Options controls the controller process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file; empty uses built-in defaults.
	ConfigPath string
	// LogLevel overrides the configured log level when not empty.
	LogLevel string
	// PreemptibleDisarm lets the button end the alarm hold early, regardless of the settings file.
	PreemptibleDisarm bool
}

// ErrUnknownLogLevel indicates a log level zap does not know.
var ErrUnknownLogLevel = errors.New("unknown log level")

// Run opens the GPIO lines and drives the controller until ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "intrusion-alarm")

	cfg, err := Prepare(opts)
	if err != nil {
		return err
	}

	// The GPIO lines are owned by exactly one process.
	if err := common.EnsureSingleInstance(); err != nil {
		return fmt.Errorf("check running instances: %w", err)
	}

	lines, err := hardware.Open(cfg.Pins, BuzzerFrequency(cfg))
	if err != nil {
		return fmt.Errorf("open hardware: %w", err)
	}

	defer func() {
		if err := lines.Halt(); err != nil {
			logger.ErrorKV(ctx, "Unable to release GPIO lines", "error", err)
		}
	}()

	controller := Build(lines, cfg, LogNotifier{})

	logger.InfoKV(
		ctx,
		"Intrusion Detection & Alert System Started",
		"version", version.Short(),
		"distance_threshold_cm", cfg.DistanceThresholdCM,
		"alarm_duration", cfg.AlarmDuration.String(),
		"preemptible_disarm", cfg.PreemptibleDisarm,
	)

	return controller.Run(ctx)
}

// Prepare loads the settings, applies command line overrides and sets the log level.
func Prepare(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if opts.PreemptibleDisarm {
		cfg.PreemptibleDisarm = true
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return nil, fmt.Errorf("%q: %w", cfg.LogLevel, ErrUnknownLogLevel)
	}

	logger.SetLevel(level)

	return cfg, nil
}

// Build wires a controller to configured GPIO lines.
func Build(lines *hardware.Lines, cfg *config.Config, notifier Notifier, opts ...Option) *Controller {
	ranger := sonar.New(lines.Trigger, lines.Echo, sonar.WithEchoTimeout(cfg.EchoTimeout))

	actuator := indicator.New(
		indicator.Lines{
			Red:    lines.Red,
			Green:  lines.Green,
			Blue:   lines.Blue,
			Buzzer: lines.Buzzer,
		},
		indicator.WithBuzzerTone(indicator.DutyFromPercent(cfg.BuzzerDutyPercent), BuzzerFrequency(cfg)),
	)

	inputs := Inputs{
		Button: lines.Button,
		PIR:    lines.PIR,
	}

	return NewController(inputs, ranger, actuator, notifier, SettingsFrom(cfg), opts...)
}

// BuzzerFrequency returns the configured buzzer PWM frequency.
func BuzzerFrequency(cfg *config.Config) physic.Frequency {
	return physic.Frequency(cfg.BuzzerFrequencyHz) * physic.Hertz
}
