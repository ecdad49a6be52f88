package main

import (
	"errors"

	mdkatex "github.com/mdkatex/mdkatex"
)

// Exit codes for the mdkatex CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or protocol input
	ExitEngine  = 3 // Browser/engine errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use
// fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, mdkatex.ErrEngineConnect) ||
		errors.Is(err, mdkatex.ErrEngineLoad) {
		return ExitEngine
	}

	if errors.Is(err, mdkatex.ErrInvalidOption) ||
		errors.Is(err, mdkatex.ErrMacroFile) ||
		errors.Is(err, mdkatex.ErrMacroParse) ||
		errors.Is(err, mdkatex.ErrEmptyDelimiter) ||
		errors.Is(err, errUsage) ||
		errors.Is(err, errProtocol) {
		return ExitUsage
	}

	return ExitGeneral
}
