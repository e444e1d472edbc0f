// Package measure implements the calibration command: it samples the
// ultrasonic rangefinder a fixed number of times and logs every distance,
// so the confirmation threshold can be chosen for the installation site.
package measure
