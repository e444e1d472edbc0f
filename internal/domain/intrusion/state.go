package intrusion

// State is the operating mode of the controller.
type State int

const (
	// StateDisarmed ignores the motion sensor entirely.
	StateDisarmed State = iota
	// StateArmed evaluates motion and confirms it with the rangefinder.
	StateArmed
	// StateAlarming drives the alarm until the hold elapses or the system is disarmed.
	StateAlarming
)

// String returns a lower-case name suitable for log fields.
func (s State) String() string {
	switch s {
	case StateDisarmed:
		return "disarmed"
	case StateArmed:
		return "armed"
	case StateAlarming:
		return "alarming"
	default:
		return "unknown"
	}
}

// ButtonEdge is the logical event derived from one button sample.
type ButtonEdge int

const (
	// EdgeNone means the sample carried no press.
	EdgeNone ButtonEdge = iota
	// EdgeToggled means a new press was detected.
	EdgeToggled
)

// Color is the state of the three indicator LED channels.
type Color struct {
	Red   bool
	Green bool
	Blue  bool
}

var (
	// ColorOff switches every channel off. Only used when the controller stops.
	ColorOff = Color{}
	// ColorDisarmed is shown while the system is disarmed.
	ColorDisarmed = Color{Green: true}
	// ColorArmed is shown while the system is armed.
	ColorArmed = Color{Blue: true}
	// ColorAlarm is shown while the alarm is sounding.
	ColorAlarm = Color{Red: true}
)

// ColorFor returns the indicator color bound to the state.
func ColorFor(s State) Color {
	switch s {
	case StateArmed:
		return ColorArmed
	case StateAlarming:
		return ColorAlarm
	default:
		return ColorDisarmed
	}
}

// String renders the color as a name for logs.
func (c Color) String() string {
	switch c {
	case ColorOff:
		return "off"
	case ColorDisarmed:
		return "green"
	case ColorArmed:
		return "blue"
	case ColorAlarm:
		return "red"
	default:
		return "mixed"
	}
}
