// Package common holds helpers shared by several services.
//
// It provides a guard that refuses to start a second process driving the
// same GPIO lines.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
