// Package config defines controller settings: GPIO line names, detection
// thresholds and loop timings. It provides helpers to load, validate and save
// them in YAML format.
//
// Every field has a compile-time default returned by Default, so the
// controller runs without any settings file.
package config
