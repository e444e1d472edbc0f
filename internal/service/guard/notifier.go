package guard

import (
	"context"

	"github.com/oshokin/intrusion-alarm/internal/domain/intrusion"
	"github.com/oshokin/intrusion-alarm/internal/logger"
)

// LogNotifier writes controller events to the console logger from the context.
type LogNotifier struct{}

// Notify logs one human readable line per event.
func (LogNotifier) Notify(ctx context.Context, event intrusion.Event) {
	switch event.Kind {
	case intrusion.EventArmed:
		logger.InfoKV(ctx, "System ARMED", "indicator", intrusion.ColorArmed.String())
	case intrusion.EventDisarmed:
		logger.InfoKV(ctx, "System DISARMED", "indicator", intrusion.ColorDisarmed.String())
	case intrusion.EventMotionUnconfirmed:
		logger.InfoKV(ctx, "Motion detected but no close object", "reading", event.Reading.String())
	case intrusion.EventIntrusionConfirmed:
		logger.WarnKV(ctx, "INTRUSION CONFIRMED", "distance_cm", event.Reading.Centimeters())
	case intrusion.EventAlarmCleared:
		logger.InfoKV(ctx, "Alarm cleared, system re-armed", "state", event.State.String())
	default:
		logger.DebugKV(ctx, "Unknown controller event", "kind", event.Kind.String())
	}
}
