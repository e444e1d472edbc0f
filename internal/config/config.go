package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Pins holds the periph.io registry names of the controller's lines.
type Pins struct {
	// PIR is the motion sensor input, high on motion.
	PIR string `yaml:"pir"`
	// Trigger is the ultrasonic trigger output.
	Trigger string `yaml:"trigger"`
	// Echo is the ultrasonic echo input.
	Echo string `yaml:"echo"`
	// Button is the arm/disarm button input, pulled high and low when pressed.
	Button string `yaml:"button"`
	// Red is the red indicator LED output.
	Red string `yaml:"red"`
	// Green is the green indicator LED output.
	Green string `yaml:"green"`
	// Blue is the blue indicator LED output.
	Blue string `yaml:"blue"`
	// Buzzer is the PWM capable buzzer output.
	Buzzer string `yaml:"buzzer"`
}

// Config holds the controller settings.
type Config struct {
	// Pins maps every line to a GPIO name.
	Pins Pins `yaml:"pins"`
	// DistanceThresholdCM is the distance below which motion counts as an intrusion.
	DistanceThresholdCM float64 `yaml:"distance_threshold_cm"`
	// EchoTimeout bounds each wait for an echo edge.
	EchoTimeout time.Duration `yaml:"echo_timeout"`
	// AlarmDuration is how long the alarm sounds once an intrusion is confirmed.
	AlarmDuration time.Duration `yaml:"alarm_duration"`
	// PreemptibleDisarm lets the button cut the alarm hold short.
	PreemptibleDisarm bool `yaml:"preemptible_disarm"`
	// PollInterval is the delay between two poll cycles.
	PollInterval time.Duration `yaml:"poll_interval"`
	// Debounce is the pause after a button press.
	Debounce time.Duration `yaml:"debounce"`
	// BuzzerFrequencyHz is the PWM frequency of the buzzer.
	BuzzerFrequencyHz int64 `yaml:"buzzer_frequency_hz"`
	// BuzzerDutyPercent is the PWM duty cycle while the buzzer sounds.
	BuzzerDutyPercent int `yaml:"buzzer_duty_percent"`
	// LogLevel is the minimum level of console messages.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultDistanceThresholdCM is the default intrusion confirmation distance.
	DefaultDistanceThresholdCM = 50.0

	// DefaultEchoTimeout matches a range of roughly five meters.
	DefaultEchoTimeout = 30 * time.Millisecond

	// DefaultAlarmDuration is the default alarm hold.
	DefaultAlarmDuration = 5 * time.Second

	// DefaultPollInterval is the default delay between poll cycles.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultDebounce is the default pause after a button press.
	DefaultDebounce = 300 * time.Millisecond

	// DefaultBuzzerFrequencyHz is the default buzzer PWM frequency.
	DefaultBuzzerFrequencyHz = 1000

	// DefaultBuzzerDutyPercent is the default buzzer PWM duty cycle.
	DefaultBuzzerDutyPercent = 50

	// DefaultLogLevel is the default console log level.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for settings files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errPinRequired is returned when a line has no GPIO name.
	errPinRequired = errors.New("pin name must be provided")
	// errPinReused is returned when two lines share a GPIO name.
	errPinReused = errors.New("pin is assigned to more than one line")
	// errNotPositive is returned when a threshold or duration is zero or negative.
	errNotPositive = errors.New("value must be positive")
	// errDutyOutOfRange is returned when the buzzer duty is not a percentage.
	errDutyOutOfRange = errors.New("buzzer duty must be between 1 and 100 percent")
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Pins: Pins{
			PIR:     "GPIO13",
			Trigger: "GPIO5",
			Echo:    "GPIO18",
			Button:  "GPIO19",
			Red:     "GPIO25",
			Green:   "GPIO26",
			Blue:    "GPIO27",
			Buzzer:  "GPIO21",
		},
		DistanceThresholdCM: DefaultDistanceThresholdCM,
		EchoTimeout:         DefaultEchoTimeout,
		AlarmDuration:       DefaultAlarmDuration,
		PollInterval:        DefaultPollInterval,
		Debounce:            DefaultDebounce,
		BuzzerFrequencyHz:   DefaultBuzzerFrequencyHz,
		BuzzerDutyPercent:   DefaultBuzzerDutyPercent,
		LogLevel:            DefaultLogLevel,
	}
}

// Load returns the built-in settings when path is empty. Otherwise it reads
// the YAML file at path on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and sane values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := validatePins(&cfg.Pins); err != nil {
		return err
	}

	if cfg.DistanceThresholdCM <= 0 {
		return fmt.Errorf("distance_threshold_cm: %w", errNotPositive)
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"echo_timeout", cfg.EchoTimeout},
		{"alarm_duration", cfg.AlarmDuration},
		{"poll_interval", cfg.PollInterval},
		{"debounce", cfg.Debounce},
	}

	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s: %w", d.name, errNotPositive)
		}
	}

	if cfg.BuzzerFrequencyHz <= 0 {
		return fmt.Errorf("buzzer_frequency_hz: %w", errNotPositive)
	}

	if cfg.BuzzerDutyPercent < 1 || cfg.BuzzerDutyPercent > 100 {
		return errDutyOutOfRange
	}

	// Set default log level if not specified
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return nil
}

// validatePins requires every line to have its own GPIO name.
func validatePins(pins *Pins) error {
	lines := []struct {
		role string
		name string
	}{
		{"pir", pins.PIR},
		{"trigger", pins.Trigger},
		{"echo", pins.Echo},
		{"button", pins.Button},
		{"red", pins.Red},
		{"green", pins.Green},
		{"blue", pins.Blue},
		{"buzzer", pins.Buzzer},
	}

	owners := make(map[string]string, len(lines))

	for _, line := range lines {
		if line.name == "" {
			return fmt.Errorf("%s: %w", line.role, errPinRequired)
		}

		if owner, ok := owners[line.name]; ok {
			return fmt.Errorf("%s and %s use %s: %w", owner, line.role, line.name, errPinReused)
		}

		owners[line.name] = line.role
	}

	return nil
}
