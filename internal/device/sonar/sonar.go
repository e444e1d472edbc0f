// Package sonar measures distance with an HC-SR04 style ultrasonic ranging module.
//
// Datasheet: https://cdn.sparkfun.com/datasheets/Sensors/Proximity/HCSR04.pdf
package sonar

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/clockz"
	"periph.io/x/conn/v3/gpio"

	"github.com/oshokin/intrusion-alarm/internal/domain/intrusion"
)

const (
	// SettleDelay keeps the trigger low before a pulse so the module starts from idle.
	SettleDelay = 2 * time.Millisecond
	// TriggerPulse is the trigger high time that starts one measurement.
	TriggerPulse = 10 * time.Microsecond
	// DefaultEchoTimeout bounds each echo edge wait, about five meters of range.
	DefaultEchoTimeout = 30 * time.Millisecond
)

// TriggerLine is the output that starts a measurement.
type TriggerLine interface {
	Out(l gpio.Level) error
}

// EchoLine is the input carrying the round-trip pulse.
// It must be configured for both edges.
type EchoLine interface {
	Read() gpio.Level
	WaitForEdge(timeout time.Duration) bool
}

// Sonar drives one ranging module.
type Sonar struct {
	// trigger starts a measurement.
	trigger TriggerLine
	// echo is high for the round-trip time.
	echo EchoLine
	// clock timestamps the echo edges.
	clock clockz.Clock
	// timeout bounds each echo edge wait.
	timeout time.Duration
	// sleep implements the trigger delays.
	sleep func(time.Duration)
}

// Option customises a Sonar.
type Option func(*Sonar)

// WithEchoTimeout overrides the echo edge timeout.
func WithEchoTimeout(timeout time.Duration) Option {
	return func(s *Sonar) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithClock sets the clock used to time the echo pulse.
func WithClock(clock clockz.Clock) Option {
	return func(s *Sonar) {
		s.clock = clock
	}
}

// New creates a Sonar over already configured lines.
func New(trigger TriggerLine, echo EchoLine, opts ...Option) *Sonar {
	s := &Sonar{
		trigger: trigger,
		echo:    echo,
		clock:   clockz.RealClock,
		timeout: DefaultEchoTimeout,
		sleep:   time.Sleep,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Measure fires one trigger pulse and times the echo.
// A missing echo is reported as intrusion.NoEcho, not as an error.
// Errors are only returned when the trigger line cannot be driven.
func (s *Sonar) Measure(ctx context.Context) (intrusion.Reading, error) {
	if err := ctx.Err(); err != nil {
		return intrusion.NoEcho(), err
	}

	if err := s.pulse(); err != nil {
		return intrusion.NoEcho(), err
	}

	return s.pulseWidth(), nil
}

// pulse emits the trigger sequence: low, settle, high for TriggerPulse, low.
func (s *Sonar) pulse() error {
	if err := s.trigger.Out(gpio.Low); err != nil {
		return fmt.Errorf("reset trigger: %w", err)
	}

	s.sleep(SettleDelay)

	if err := s.trigger.Out(gpio.High); err != nil {
		return fmt.Errorf("raise trigger: %w", err)
	}

	s.sleep(TriggerPulse)

	if err := s.trigger.Out(gpio.Low); err != nil {
		return fmt.Errorf("lower trigger: %w", err)
	}

	return nil
}

// pulseWidth waits for the echo to rise and fall, each within the timeout.
func (s *Sonar) pulseWidth() intrusion.Reading {
	if s.echo.Read() != gpio.High && !s.echo.WaitForEdge(s.timeout) {
		return intrusion.NoEcho()
	}

	start := s.clock.Now()

	if !s.echo.WaitForEdge(s.timeout) {
		return intrusion.NoEcho()
	}

	return intrusion.EchoAfter(s.clock.Since(start))
}
