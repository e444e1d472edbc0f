// Package intrusion contains core domain types for the intrusion detection logic.
//
// It defines the controller State, the ButtonEdge produced by the debouncer,
// the ultrasonic Reading (with an explicit "no echo" value), the indicator
// Color bound to each State, and the Event notifications the controller emits.
package intrusion
