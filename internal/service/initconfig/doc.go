// Package initconfig writes a starter settings file holding the built-in
// defaults, ready to be edited and passed to the controller with --config.
package initconfig
