package sonar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// errBus simulates a failing output driver.
var errBus = errors.New("bus error")

// recordingTrigger keeps every level written to the trigger line.
type recordingTrigger struct {
	levels []gpio.Level
	failAt int
}

func (r *recordingTrigger) Out(l gpio.Level) error {
	if r.failAt > 0 && len(r.levels)+1 == r.failAt {
		return errBus
	}

	r.levels = append(r.levels, l)

	return nil
}

// newTestSonar builds a Sonar with instant trigger delays and a fake clock.
func newTestSonar(trigger TriggerLine, echo EchoLine, timeout time.Duration) *Sonar {
	s := New(trigger, echo, WithEchoTimeout(timeout), WithClock(clockz.NewFakeClock()))
	s.sleep = func(time.Duration) {}

	return s
}

// TestMeasure_TriggerSequence verifies the low, settle, 10 µs high, low protocol.
func TestMeasure_TriggerSequence(t *testing.T) {
	t.Parallel()

	trigger := new(recordingTrigger)
	echo := &gpiotest.Pin{N: "ECHO", EdgesChan: make(chan gpio.Level, 2)}
	echo.EdgesChan <- gpio.High
	echo.EdgesChan <- gpio.Low

	var slept []time.Duration

	s := New(trigger, echo, WithClock(clockz.NewFakeClock()))
	s.sleep = func(d time.Duration) {
		slept = append(slept, d)
	}

	reading, err := s.Measure(context.Background())
	require.NoError(t, err)
	require.True(t, reading.Present())

	require.Equal(t, []gpio.Level{gpio.Low, gpio.High, gpio.Low}, trigger.levels)
	require.Equal(t, []time.Duration{SettleDelay, TriggerPulse}, slept)
}

// TestMeasure_EchoPulse verifies a full echo pulse yields a reading timed by the clock.
func TestMeasure_EchoPulse(t *testing.T) {
	t.Parallel()

	trigger := &gpiotest.Pin{N: "TRIG"}
	echo := &gpiotest.Pin{N: "ECHO", EdgesChan: make(chan gpio.Level, 2)}
	echo.EdgesChan <- gpio.High
	echo.EdgesChan <- gpio.Low

	s := newTestSonar(trigger, echo, 50*time.Millisecond)

	reading, err := s.Measure(context.Background())
	require.NoError(t, err)
	require.True(t, reading.Present())
	// The fake clock does not move, so the pulse is zero wide.
	require.Zero(t, reading.Duration())
	require.Equal(t, gpio.Low, trigger.Read())
}

// timedEcho is an echo line whose falling edge arrives width after the rising one.
type timedEcho struct {
	clock *clockz.FakeClock
	width time.Duration
	edges int
}

func (e *timedEcho) Read() gpio.Level {
	return gpio.Low
}

func (e *timedEcho) WaitForEdge(time.Duration) bool {
	e.edges++
	if e.edges == 2 {
		e.clock.Advance(e.width)
	}

	return true
}

// newTimedSonar builds a Sonar whose echo pulse lasts width on a fake clock.
func newTimedSonar(width time.Duration) *Sonar {
	clock := clockz.NewFakeClock()

	s := New(new(recordingTrigger), &timedEcho{clock: clock, width: width}, WithClock(clock))
	s.sleep = func(time.Duration) {}

	return s
}

// TestMeasure_PulseWidth verifies the rising-to-falling edge time converts to distance.
func TestMeasure_PulseWidth(t *testing.T) {
	t.Parallel()

	reading, err := newTimedSonar(1764 * time.Microsecond).Measure(context.Background())
	require.NoError(t, err)
	require.True(t, reading.Present())
	require.Equal(t, 1764*time.Microsecond, reading.Duration())
	require.InDelta(t, 29.988, reading.Centimeters(), 0.001)
}

// TestMeasure_ThresholdBoundary verifies readings around 50 cm fall on the right side.
func TestMeasure_ThresholdBoundary(t *testing.T) {
	t.Parallel()

	near, err := newTimedSonar(2941 * time.Microsecond).Measure(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 49.997, near.Centimeters(), 0.001)
	require.True(t, near.Within(50))

	far, err := newTimedSonar(2950 * time.Microsecond).Measure(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 50.15, far.Centimeters(), 0.001)
	require.False(t, far.Within(50))
}

// TestMeasure_NoEcho verifies a silent echo line yields no reading within the timeout.
func TestMeasure_NoEcho(t *testing.T) {
	t.Parallel()

	trigger := &gpiotest.Pin{N: "TRIG"}
	echo := &gpiotest.Pin{N: "ECHO", EdgesChan: make(chan gpio.Level)}

	s := newTestSonar(trigger, echo, 5*time.Millisecond)

	started := time.Now()
	reading, err := s.Measure(context.Background())
	require.NoError(t, err)
	require.False(t, reading.Present())
	require.Less(t, time.Since(started), time.Second)
}

// TestMeasure_EchoNeverFalls verifies a pulse without a falling edge is not a reading.
func TestMeasure_EchoNeverFalls(t *testing.T) {
	t.Parallel()

	trigger := &gpiotest.Pin{N: "TRIG"}
	echo := &gpiotest.Pin{N: "ECHO", EdgesChan: make(chan gpio.Level, 1)}
	echo.EdgesChan <- gpio.High

	s := newTestSonar(trigger, echo, 5*time.Millisecond)

	reading, err := s.Measure(context.Background())
	require.NoError(t, err)
	require.False(t, reading.Present())
}

// TestMeasure_TriggerFailure verifies output errors surface and carry the failing step.
func TestMeasure_TriggerFailure(t *testing.T) {
	t.Parallel()

	echo := &gpiotest.Pin{N: "ECHO"}

	s := newTestSonar(&recordingTrigger{failAt: 2}, echo, time.Millisecond)

	reading, err := s.Measure(context.Background())
	require.ErrorIs(t, err, errBus)
	require.ErrorContains(t, err, "raise trigger")
	require.False(t, reading.Present())
}

// TestMeasure_CanceledContext verifies a canceled context skips the measurement.
func TestMeasure_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trigger := new(recordingTrigger)
	s := newTestSonar(trigger, &gpiotest.Pin{N: "ECHO"}, time.Millisecond)

	_, err := s.Measure(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, trigger.levels)
}
