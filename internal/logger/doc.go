// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger writing timestamped console lines,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, WarnKV, etc.).
//
// The controller and the CLI services accept a context and extract the
// logger from it, so every line carries the component name.
package logger
