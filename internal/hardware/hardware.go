package hardware

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/oshokin/intrusion-alarm/internal/config"
)

// Resolver looks a pin up by name, returning nil when it does not exist.
type Resolver func(name string) gpio.PinIO

// Lines holds the configured controller lines.
type Lines struct {
	// PIR is the motion sensor input.
	PIR gpio.PinIO
	// Trigger is the ultrasonic trigger output.
	Trigger gpio.PinIO
	// Echo is the ultrasonic echo input, watching both edges.
	Echo gpio.PinIO
	// Button is the pulled-up arm/disarm input.
	Button gpio.PinIO
	// Red is the red LED output.
	Red gpio.PinIO
	// Green is the green LED output.
	Green gpio.PinIO
	// Blue is the blue LED output.
	Blue gpio.PinIO
	// Buzzer is the PWM buzzer output.
	Buzzer gpio.PinIO
}

// ErrPinNotFound is returned when a configured pin name is unknown to the host.
var ErrPinNotFound = errors.New("pin not found")

// Open initialises the periph host drivers and configures every line.
func Open(pins config.Pins, buzzerFrequency physic.Frequency) (*Lines, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialise periph host: %w", err)
	}

	return OpenWith(gpioreg.ByName, pins, buzzerFrequency)
}

// OpenWith resolves every line with resolve and configures its direction.
func OpenWith(resolve Resolver, pins config.Pins, buzzerFrequency physic.Frequency) (*Lines, error) {
	var (
		lines = new(Lines)
		err   error
	)

	steps := []struct {
		role      string
		name      string
		target    *gpio.PinIO
		configure func(p gpio.PinIO) error
	}{
		{"pir", pins.PIR, &lines.PIR, input(gpio.PullDown, gpio.NoEdge)},
		{"button", pins.Button, &lines.Button, input(gpio.PullUp, gpio.NoEdge)},
		{"echo", pins.Echo, &lines.Echo, input(gpio.PullDown, gpio.BothEdges)},
		{"trigger", pins.Trigger, &lines.Trigger, output},
		{"red", pins.Red, &lines.Red, output},
		{"green", pins.Green, &lines.Green, output},
		{"blue", pins.Blue, &lines.Blue, output},
		{"buzzer", pins.Buzzer, &lines.Buzzer, silent(buzzerFrequency)},
	}

	for _, step := range steps {
		p := resolve(step.name)
		if p == nil {
			err = fmt.Errorf("%s line %q: %w", step.role, step.name, ErrPinNotFound)
			break
		}

		if err = step.configure(p); err != nil {
			err = fmt.Errorf("configure %s line %q: %w", step.role, step.name, err)
			break
		}

		*step.target = p
	}

	if err != nil {
		_ = lines.Halt()
		return nil, err
	}

	return lines, nil
}

// Halt stops every configured line. Missing lines are skipped.
func (l *Lines) Halt() error {
	if l == nil {
		return nil
	}

	var errs []error

	for _, p := range []gpio.PinIO{l.PIR, l.Trigger, l.Echo, l.Button, l.Red, l.Green, l.Blue, l.Buzzer} {
		if p == nil {
			continue
		}

		if err := p.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt %s: %w", p, err))
		}
	}

	return errors.Join(errs...)
}

// input configures a pin as an input with the given pull and edge detection.
func input(pull gpio.Pull, edge gpio.Edge) func(p gpio.PinIO) error {
	return func(p gpio.PinIO) error {
		return p.In(pull, edge)
	}
}

// output configures a pin as a low output.
func output(p gpio.PinIO) error {
	return p.Out(gpio.Low)
}

// silent configures a pin as a PWM output at zero duty.
func silent(frequency physic.Frequency) func(p gpio.PinIO) error {
	return func(p gpio.PinIO) error {
		return p.PWM(0, frequency)
	}
}
