// Package indicator drives the RGB status LED and the alarm buzzer.
package indicator

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/oshokin/intrusion-alarm/internal/domain/intrusion"
)

const (
	// DefaultBuzzerFrequency is the buzzer PWM frequency.
	DefaultBuzzerFrequency = physic.KiloHertz
	// DefaultBuzzerDuty is the buzzer PWM duty while sounding.
	DefaultBuzzerDuty = gpio.DutyHalf
)

// LEDLine is a digital output driving one LED channel.
type LEDLine interface {
	Out(l gpio.Level) error
}

// BuzzerLine is a PWM capable output driving the buzzer.
type BuzzerLine interface {
	PWM(duty gpio.Duty, f physic.Frequency) error
}

// Lines groups the outputs owned by the Actuator.
type Lines struct {
	// Red is the red LED channel.
	Red LEDLine
	// Green is the green LED channel.
	Green LEDLine
	// Blue is the blue LED channel.
	Blue LEDLine
	// Buzzer is the PWM buzzer output.
	Buzzer BuzzerLine
}

// Actuator sets the indicator color and the buzzer. It keeps no state of its
// own, so repeating a call leaves the outputs unchanged.
type Actuator struct {
	// lines are the physical outputs.
	lines Lines
	// duty is the buzzer duty while sounding.
	duty gpio.Duty
	// frequency is the buzzer PWM frequency.
	frequency physic.Frequency
}

// Option customises an Actuator.
type Option func(*Actuator)

// WithBuzzerTone overrides the buzzer PWM duty and frequency.
func WithBuzzerTone(duty gpio.Duty, frequency physic.Frequency) Option {
	return func(a *Actuator) {
		if duty > 0 {
			a.duty = duty
		}

		if frequency > 0 {
			a.frequency = frequency
		}
	}
}

// New creates an Actuator over already configured lines.
func New(lines Lines, opts ...Option) *Actuator {
	a := &Actuator{
		lines:     lines,
		duty:      DefaultBuzzerDuty,
		frequency: DefaultBuzzerFrequency,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// SetIndicator writes the three LED channels.
func (a *Actuator) SetIndicator(c intrusion.Color) error {
	channels := []struct {
		name string
		line LEDLine
		on   bool
	}{
		{"red", a.lines.Red, c.Red},
		{"green", a.lines.Green, c.Green},
		{"blue", a.lines.Blue, c.Blue},
	}

	for _, ch := range channels {
		if err := ch.line.Out(gpio.Level(ch.on)); err != nil {
			return fmt.Errorf("set %s led: %w", ch.name, err)
		}
	}

	return nil
}

// SetBuzzer sounds the buzzer at the configured duty, or silences it.
func (a *Actuator) SetBuzzer(active bool) error {
	var duty gpio.Duty
	if active {
		duty = a.duty
	}

	if err := a.lines.Buzzer.PWM(duty, a.frequency); err != nil {
		return fmt.Errorf("set buzzer: %w", err)
	}

	return nil
}

// DutyFromPercent converts a duty cycle percentage to a periph duty.
func DutyFromPercent(percent int) gpio.Duty {
	return gpio.Duty(int64(gpio.DutyMax) * int64(percent) / 100)
}
