package intrusion

// EventKind identifies a controller notification.
type EventKind int

const (
	// EventArmed is emitted when the button arms the system.
	EventArmed EventKind = iota + 1
	// EventDisarmed is emitted when the button disarms the system.
	EventDisarmed
	// EventMotionUnconfirmed is emitted when the PIR fired but the rangefinder found nothing close.
	EventMotionUnconfirmed
	// EventIntrusionConfirmed is emitted when the alarm starts.
	EventIntrusionConfirmed
	// EventAlarmCleared is emitted when the alarm hold ends and the system re-arms.
	EventAlarmCleared
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventArmed:
		return "armed"
	case EventDisarmed:
		return "disarmed"
	case EventMotionUnconfirmed:
		return "motion_unconfirmed"
	case EventIntrusionConfirmed:
		return "intrusion_confirmed"
	case EventAlarmCleared:
		return "alarm_cleared"
	default:
		return "unknown"
	}
}

// Event is a notification about a state transition or detection outcome.
type Event struct {
	// Kind identifies what happened.
	Kind EventKind
	// State is the controller state after the event.
	State State
	// Reading is the rangefinder result for detection events.
	Reading Reading
}
