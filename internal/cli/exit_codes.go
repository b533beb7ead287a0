package cli

import (
	clierrors "github.com/Attiv/vchangelog/internal/errors"
)

// Exit codes for the vchangelog CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitRuntimeFailure indicates git, the AI endpoint or I/O failed
	ExitRuntimeFailure = 1

	// ExitLookupFailed indicates a version was not found or history has too few versions
	ExitLookupFailed = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitConfigError indicates missing AI settings or an invalid config file
	ExitConfigError = 4
)

// ExitCode maps an error returned by the command tree to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		return ExitRuntimeFailure
	}

	switch cliErr.Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Lookup, clierrors.InsufficientHistory:
		return ExitLookupFailed
	case clierrors.Configuration, clierrors.ConfigurationMissing:
		return ExitConfigError
	default:
		return ExitRuntimeFailure
	}
}
