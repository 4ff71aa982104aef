package cli

import clierrors "github.com/ariel-frischer/releasenotes/internal/errors"

// Exit codes for the releasenotes CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitRuntime indicates an unexpected failure (repository open, checkout)
	ExitRuntime = 1

	// ExitInvalidArguments indicates missing or invalid command arguments
	ExitInvalidArguments = 2

	// ExitNotFound indicates an unknown branch, tag or end commit
	ExitNotFound = 3

	// ExitEmptyRange indicates no commits were selected and fail_on_empty is set
	ExitEmptyRange = 4

	// ExitRenderFailed indicates the release notes template failed
	ExitRenderFailed = 5

	// ExitIOFailed indicates the output document could not be written
	ExitIOFailed = 6

	// ExitConfigInvalid indicates an unreadable or invalid configuration
	ExitConfigInvalid = 7
)

// exitCode maps an error category to the process exit code.
func exitCode(category clierrors.ErrorCategory) int {
	switch category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.NotFound:
		return ExitNotFound
	case clierrors.EmptyRange:
		return ExitEmptyRange
	case clierrors.Render:
		return ExitRenderFailed
	case clierrors.IO:
		return ExitIOFailed
	case clierrors.Configuration:
		return ExitConfigInvalid
	default:
		return ExitRuntime
	}
}
