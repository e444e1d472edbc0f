// Package button turns raw samples of an active-low push button into press events.
package button

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/oshokin/intrusion-alarm/internal/domain/intrusion"
)

// Debouncer reports one toggle per physical press of a pulled-up button.
// After a toggle the caller pauses sampling for the debounce window, which
// swallows contact bounce.
type Debouncer struct {
	// previous is the last sampled level, High while released.
	previous gpio.Level
}

// New creates a Debouncer that assumes the button starts released.
func New() *Debouncer {
	return &Debouncer{
		previous: gpio.High,
	}
}

// Poll feeds one raw sample and returns EdgeToggled on a High to Low transition.
func (d *Debouncer) Poll(raw gpio.Level) intrusion.ButtonEdge {
	edge := intrusion.EdgeNone
	if d.previous == gpio.High && raw == gpio.Low {
		edge = intrusion.EdgeToggled
	}

	d.previous = raw

	return edge
}
