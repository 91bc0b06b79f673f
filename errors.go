package parsec

import "errors"

// Common errors used throughout the parsec package
var (
	// ErrConfigValidation is returned when configuration validation fails.
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrUnknownConfigKey is returned when a TOML file sets a key that maps to no field.
	ErrUnknownConfigKey = errors.New("unknown configuration key")

	// ErrNoCaseFiles indicates that the check command found nothing to run.
	ErrNoCaseFiles = errors.New("no case files specified")
	// ErrCasesFailed indicates that at least one case failed.
	ErrCasesFailed = errors.New("some cases failed")
)
