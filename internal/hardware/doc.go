// Package hardware resolves and configures the controller's GPIO lines with
// periph.io. Every line must be present: the controller has no degraded mode,
// so Open fails fast naming the line that could not be set up.
package hardware
