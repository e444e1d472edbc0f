package measure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/intrusion-alarm/internal/domain/intrusion"
)

// queuedRanger returns queued readings, then NoEcho.
type queuedRanger struct {
	readings []intrusion.Reading
	err      error
	calls    int
}

func (r *queuedRanger) Measure(_ context.Context) (intrusion.Reading, error) {
	r.calls++

	if r.err != nil {
		return intrusion.NoEcho(), r.err
	}

	if len(r.readings) == 0 {
		return intrusion.NoEcho(), nil
	}

	next := r.readings[0]
	r.readings = r.readings[1:]

	return next, nil
}

// echoAt returns a reading for the given distance in centimeters.
func echoAt(cm float64) intrusion.Reading {
	return intrusion.EchoAfter(time.Duration(2*cm/intrusion.SpeedOfSoundCMPerMicrosecond) * time.Microsecond)
}

// TestSampler_Summary verifies echoes are aggregated and missing echoes only counted.
func TestSampler_Summary(t *testing.T) {
	t.Parallel()

	ranger := &queuedRanger{
		readings: []intrusion.Reading{echoAt(20), intrusion.NoEcho(), echoAt(80), echoAt(30)},
	}

	summary, err := NewSampler(ranger, 50).Sample(context.Background(), 4, 0)
	require.NoError(t, err)
	require.Equal(t, 4, ranger.calls)
	require.Equal(t, 4, summary.Taken)
	require.Equal(t, 3, summary.Echoes)
	require.Equal(t, 2, summary.Within)
	require.InDelta(t, 20, summary.Nearest, 0.1)
	require.InDelta(t, 80, summary.Farthest, 0.1)
	require.InDelta(t, 43.3, summary.Mean, 0.1)
}

// TestSampler_DefaultCount verifies a non-positive count takes the default number of readings.
func TestSampler_DefaultCount(t *testing.T) {
	t.Parallel()

	ranger := new(queuedRanger)

	summary, err := NewSampler(ranger, 50).Sample(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Equal(t, DefaultSamples, ranger.calls)
	require.Zero(t, summary.Echoes)
	require.Zero(t, summary.Mean)
}

// TestSampler_RangerError verifies sensor failures stop the run.
func TestSampler_RangerError(t *testing.T) {
	t.Parallel()

	errTrigger := errors.New("trigger stuck")

	_, err := NewSampler(&queuedRanger{err: errTrigger}, 50).Sample(context.Background(), 3, 0)
	require.ErrorIs(t, err, errTrigger)
	require.ErrorContains(t, err, "measure distance")
}

// TestSampler_Canceled verifies a canceled context ends the pause between readings.
func TestSampler_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ranger := &queuedRanger{readings: []intrusion.Reading{echoAt(10)}}

	summary, err := NewSampler(ranger, 50).Sample(ctx, 5, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, summary.Taken)
	require.Equal(t, 1, ranger.calls)
}

// TestSampler_Interval verifies readings are paced by the interval.
func TestSampler_Interval(t *testing.T) {
	t.Parallel()

	started := time.Now()

	_, err := NewSampler(new(queuedRanger), 50).Sample(context.Background(), 3, 5*time.Millisecond)
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(started), 10*time.Millisecond)
}
