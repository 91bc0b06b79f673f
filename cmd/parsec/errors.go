package main

import "errors"

// Sentinel errors for command operations
var (
	ErrEvalFailed = errors.New("some inputs could not be evaluated")
	ErrNoInput    = errors.New("no input given")
)
