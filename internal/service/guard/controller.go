package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zoobzio/clockz"
	"periph.io/x/conn/v3/gpio"

	"github.com/oshokin/intrusion-alarm/internal/config"
	"github.com/oshokin/intrusion-alarm/internal/device/button"
	"github.com/oshokin/intrusion-alarm/internal/domain/intrusion"
	"github.com/oshokin/intrusion-alarm/internal/logger"
)

// LevelReader is a digital input sampled once per poll cycle.
type LevelReader interface {
	Read() gpio.Level
}

// Ranger measures the distance to whatever triggered the motion sensor.
type Ranger interface {
	Measure(ctx context.Context) (intrusion.Reading, error)
}

// Actuator drives the indicator LED and the buzzer.
type Actuator interface {
	SetIndicator(c intrusion.Color) error
	SetBuzzer(active bool) error
}

// Notifier receives controller events.
type Notifier interface {
	Notify(ctx context.Context, event intrusion.Event)
}

// Inputs are the digital inputs polled by the controller.
type Inputs struct {
	// Button is the raw active-low arm/disarm button.
	Button LevelReader
	// PIR is high while motion is detected.
	PIR LevelReader
}

// Settings are the controller thresholds and timings.
type Settings struct {
	// DistanceThresholdCM confirms motion closer than this distance.
	DistanceThresholdCM float64
	// AlarmDuration is how long the alarm sounds.
	AlarmDuration time.Duration
	// PollInterval is the delay between poll cycles.
	PollInterval time.Duration
	// Debounce is the pause after a button toggle.
	Debounce time.Duration
	// PreemptibleDisarm lets a button press end the alarm hold early.
	PreemptibleDisarm bool
}

// SettingsFrom extracts controller settings from the configuration.
func SettingsFrom(cfg *config.Config) Settings {
	return Settings{
		DistanceThresholdCM: cfg.DistanceThresholdCM,
		AlarmDuration:       cfg.AlarmDuration,
		PollInterval:        cfg.PollInterval,
		Debounce:            cfg.Debounce,
		PreemptibleDisarm:   cfg.PreemptibleDisarm,
	}
}

// phase is the part of the poll cycle the next Step executes.
type phase int

const (
	// phasePoll starts a new cycle with the button check.
	phasePoll phase = iota
	// phaseDetect resumes a cycle after the debounce pause.
	phaseDetect
	// phaseAlarmEnd ends a non-preemptible alarm hold.
	phaseAlarmEnd
)

// Controller is the arm/disarm and detection state machine.
// It is driven by a single goroutine and is not safe for concurrent use.
type Controller struct {
	// inputs are the polled button and PIR lines.
	inputs Inputs
	// button turns raw button samples into toggles.
	button *button.Debouncer
	// ranger confirms motion.
	ranger Ranger
	// actuator shows the state.
	actuator Actuator
	// notifier receives events.
	notifier Notifier
	// clock schedules waits and the alarm deadline.
	clock clockz.Clock
	// settings are the thresholds and timings.
	settings Settings

	// state is the current operating mode.
	state intrusion.State
	// next is the phase executed by the next Step.
	next phase
	// alarmUntil is when the current alarm hold ends.
	alarmUntil time.Time
}

// Option customises a Controller.
type Option func(*Controller)

// WithClock sets the clock used for waits and the alarm deadline.
func WithClock(clock clockz.Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// NewController creates a disarmed controller. Call Reset or Run to drive the outputs.
func NewController(
	inputs Inputs,
	ranger Ranger,
	actuator Actuator,
	notifier Notifier,
	settings Settings,
	opts ...Option,
) *Controller {
	c := &Controller{
		inputs:   inputs,
		button:   button.New(),
		ranger:   ranger,
		actuator: actuator,
		notifier: notifier,
		clock:    clockz.RealClock,
		settings: settings,
		state:    intrusion.StateDisarmed,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns the current operating mode.
func (c *Controller) State() intrusion.State {
	return c.state
}

// Reset puts the controller in its initial state: disarmed, green, silent.
func (c *Controller) Reset(_ context.Context) error {
	c.state = intrusion.StateDisarmed
	c.next = phasePoll
	c.alarmUntil = time.Time{}

	if err := c.showState(); err != nil {
		return err
	}

	return c.actuator.SetBuzzer(false)
}

// Run resets the controller and executes steps until ctx is canceled.
// On cancellation or a failed step the buzzer and the indicator are switched off.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Reset(ctx); err != nil {
		return fmt.Errorf("reset outputs: %w", err)
	}

	for {
		wait, err := c.Step(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return c.shutdown(ctx)
			}

			// The step error wins; a failed shutdown is joined to it.
			return errors.Join(err, c.shutdown(ctx))
		}

		if err := c.sleep(ctx, wait); err != nil {
			return c.shutdown(ctx)
		}
	}
}

// Step executes the next part of the poll cycle and returns how long to wait
// before calling it again. Inputs are only sampled inside Step.
func (c *Controller) Step(ctx context.Context) (time.Duration, error) {
	switch c.next {
	case phaseDetect:
		c.next = phasePoll

		return c.detect(ctx)
	case phaseAlarmEnd:
		c.next = phasePoll

		if err := c.endAlarm(ctx); err != nil {
			return 0, err
		}

		return c.settings.PollInterval, nil
	case phasePoll:
	}

	if c.state == intrusion.StateAlarming {
		return c.holdAlarm(ctx)
	}

	toggled, err := c.pollButton(ctx)
	if err != nil {
		return 0, err
	}

	if toggled {
		c.next = phaseDetect

		return c.settings.Debounce, nil
	}

	return c.detect(ctx)
}

// pollButton samples the button and arms or disarms on a toggle.
func (c *Controller) pollButton(ctx context.Context) (bool, error) {
	if c.button.Poll(c.inputs.Button.Read()) != intrusion.EdgeToggled {
		return false, nil
	}

	if c.state == intrusion.StateDisarmed {
		return true, c.arm(ctx)
	}

	return true, c.disarm(ctx)
}

// arm moves from disarmed to armed.
func (c *Controller) arm(ctx context.Context) error {
	c.state = intrusion.StateArmed

	if err := c.showState(); err != nil {
		return fmt.Errorf("show armed: %w", err)
	}

	c.notify(ctx, intrusion.EventArmed, intrusion.NoEcho())

	return nil
}

// disarm moves from armed or alarming to disarmed and silences the buzzer.
func (c *Controller) disarm(ctx context.Context) error {
	c.state = intrusion.StateDisarmed
	c.alarmUntil = time.Time{}

	if err := c.showState(); err != nil {
		return fmt.Errorf("show disarmed: %w", err)
	}

	if err := c.actuator.SetBuzzer(false); err != nil {
		return fmt.Errorf("silence buzzer: %w", err)
	}

	c.notify(ctx, intrusion.EventDisarmed, intrusion.NoEcho())

	return nil
}

// detect checks the PIR while armed and confirms motion with the rangefinder.
func (c *Controller) detect(ctx context.Context) (time.Duration, error) {
	if c.state != intrusion.StateArmed || c.inputs.PIR.Read() != gpio.High {
		return c.settings.PollInterval, nil
	}

	reading, err := c.ranger.Measure(ctx)
	if err != nil {
		return 0, fmt.Errorf("measure distance: %w", err)
	}

	if !reading.Within(c.settings.DistanceThresholdCM) {
		c.notify(ctx, intrusion.EventMotionUnconfirmed, reading)

		return c.settings.PollInterval, nil
	}

	return c.startAlarm(ctx, reading)
}

// startAlarm moves from armed to alarming and schedules the end of the hold.
func (c *Controller) startAlarm(ctx context.Context, reading intrusion.Reading) (time.Duration, error) {
	c.state = intrusion.StateAlarming
	c.alarmUntil = c.clock.Now().Add(c.settings.AlarmDuration)

	if err := c.showState(); err != nil {
		return 0, fmt.Errorf("show alarm: %w", err)
	}

	if err := c.actuator.SetBuzzer(true); err != nil {
		return 0, fmt.Errorf("sound buzzer: %w", err)
	}

	c.notify(ctx, intrusion.EventIntrusionConfirmed, reading)

	if !c.settings.PreemptibleDisarm {
		c.next = phaseAlarmEnd

		return c.settings.AlarmDuration, nil
	}

	return min(c.settings.PollInterval, c.settings.AlarmDuration), nil
}

// holdAlarm runs while a preemptible alarm sounds: a toggle disarms,
// otherwise the alarm ends once its deadline has passed.
func (c *Controller) holdAlarm(ctx context.Context) (time.Duration, error) {
	toggled, err := c.pollButton(ctx)
	if err != nil {
		return 0, err
	}

	if toggled {
		c.next = phaseDetect

		return c.settings.Debounce, nil
	}

	remaining := c.alarmUntil.Sub(c.clock.Now())
	if remaining > 0 {
		return min(c.settings.PollInterval, remaining), nil
	}

	if err := c.endAlarm(ctx); err != nil {
		return 0, err
	}

	return c.settings.PollInterval, nil
}

// endAlarm silences the buzzer and returns to armed.
func (c *Controller) endAlarm(ctx context.Context) error {
	c.alarmUntil = time.Time{}

	if err := c.actuator.SetBuzzer(false); err != nil {
		return fmt.Errorf("silence buzzer: %w", err)
	}

	c.state = intrusion.StateArmed

	if err := c.showState(); err != nil {
		return fmt.Errorf("show armed: %w", err)
	}

	c.notify(ctx, intrusion.EventAlarmCleared, intrusion.NoEcho())

	return nil
}

// showState lights the indicator color bound to the current state.
func (c *Controller) showState() error {
	return c.actuator.SetIndicator(intrusion.ColorFor(c.state))
}

// notify forwards an event when a notifier is set.
func (c *Controller) notify(ctx context.Context, kind intrusion.EventKind, reading intrusion.Reading) {
	if c.notifier == nil {
		return
	}

	c.notifier.Notify(ctx, intrusion.Event{
		Kind:    kind,
		State:   c.state,
		Reading: reading,
	})
}

// sleep waits for d or until ctx is canceled.
func (c *Controller) sleep(ctx context.Context, d time.Duration) error {
	timer := c.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}

// shutdown silences the buzzer and switches the indicator off.
func (c *Controller) shutdown(ctx context.Context) error {
	err := errors.Join(
		c.actuator.SetBuzzer(false),
		c.actuator.SetIndicator(intrusion.ColorOff),
	)
	if err != nil {
		return fmt.Errorf("switch outputs off: %w", err)
	}

	logger.InfoKV(ctx, "Controller stopped", "state", c.state.String())

	return nil
}
