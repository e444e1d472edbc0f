package intrusion

import (
	"fmt"
	"time"
)

// SpeedOfSoundCMPerMicrosecond is the speed of sound in air at room temperature.
const SpeedOfSoundCMPerMicrosecond = 0.034

// Reading is the outcome of one ranging attempt.
// The zero value is a reading without an echo.
type Reading struct {
	// roundTrip is the echo pulse width.
	roundTrip time.Duration
	// present is false when the echo never came back within the timeout.
	present bool
}

// NoEcho returns a reading for a ranging attempt that timed out.
func NoEcho() Reading {
	return Reading{}
}

// EchoAfter returns a reading for an echo pulse of the given width.
func EchoAfter(roundTrip time.Duration) Reading {
	return Reading{
		roundTrip: roundTrip,
		present:   true,
	}
}

// Present reports whether an echo was received.
func (r Reading) Present() bool {
	return r.present
}

// Duration returns the echo round-trip time. It is zero without an echo.
func (r Reading) Duration() time.Duration {
	return r.roundTrip
}

// Centimeters returns the distance to the reflecting object.
// It is zero without an echo, so check Present first.
func (r Reading) Centimeters() float64 {
	if !r.present {
		return 0
	}

	return Centimeters(r.roundTrip)
}

// Within reports whether the reading has an echo strictly closer than threshold centimeters.
func (r Reading) Within(threshold float64) bool {
	return r.present && r.Centimeters() < threshold
}

// String renders the reading for logs.
func (r Reading) String() string {
	if !r.present {
		return "no echo"
	}

	return fmt.Sprintf("%.2f cm", r.Centimeters())
}

// Centimeters converts an echo round-trip time into a one-way distance.
func Centimeters(roundTrip time.Duration) float64 {
	micros := float64(roundTrip) / float64(time.Microsecond)

	return micros * SpeedOfSoundCMPerMicrosecond / 2
}
