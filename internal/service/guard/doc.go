// Package guard runs the intrusion controller.
//
// Controller is the arm/disarm and detection state machine. It polls the
// button and the motion sensor, confirms motion with the rangefinder and
// drives the indicator and buzzer. Run wires it to the GPIO lines described
// by the configuration and blocks until the context is canceled.
package guard
