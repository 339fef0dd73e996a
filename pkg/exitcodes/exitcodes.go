// Package exitcodes provides centralized exit code definitions for helmad.
// Exit codes are organized in ranges to categorize different types of failures:
//
//	0:     Success
//	1-9:   Input/Configuration Errors (e.g., missing flags, unusable arguments)
//	10-19: Chart Tool Errors (e.g., unparsable output, helm failures)
//	20-29: Runtime Errors (e.g., I/O errors)
//	30-39: Internal Errors
package exitcodes

import (
	"errors"
	"fmt"
)

// Exit code constants organized by category
const (
	// Success (0)
	ExitSuccess = 0

	// Input/Configuration Errors (1-9)
	ExitMissingRequiredFlag     = 1 // Required command flag not provided
	ExitInputConfigurationError = 2 // Argument or configuration not usable

	// Chart Tool Errors (10-19)
	ExitYAMLParseError     = 10 // Tool output or values did not have the expected shape
	ExitInvalidUTF8        = 11 // Tool output or template file not valid UTF-8
	ExitHelmCommandFailed  = 16 // Helm could not be started or exited non-zero
	ExitHelmCommandTimeout = 17 // Helm did not finish within the configured timeout

	// Runtime Errors (20-29)
	ExitGeneralRuntimeError = 20
	ExitIOError             = 21 // Temporary file or chart tree access failed

	// Internal Errors (30-39)
	ExitInternalError = 30
)

// ExitCodeError wraps an error with an exit code so that the command layer
// can decide the process status without inspecting error strings.
type ExitCodeError struct {
	Code int   // Exit code to return
	Err  error // Underlying error
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d: %v", e.Code, e.Err)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// IsExitCodeError checks if an error is an ExitCodeError and returns its code.
// Returns false and 0 if the error is not an ExitCodeError.
func IsExitCodeError(err error) (int, bool) {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// CodeDescriptions maps exit codes to their human-readable descriptions
var CodeDescriptions = map[int]string{
	ExitSuccess:                 "Success",
	ExitMissingRequiredFlag:     "Required command flag not provided",
	ExitInputConfigurationError: "Argument or configuration not usable",
	ExitYAMLParseError:          "Unexpected YAML shape",
	ExitInvalidUTF8:             "Output is not valid UTF-8",
	ExitHelmCommandFailed:       "Helm command execution failed",
	ExitHelmCommandTimeout:      "Helm command timed out",
	ExitGeneralRuntimeError:     "General runtime/system error",
	ExitIOError:                 "IO operation error",
	ExitInternalError:           "Internal error in command execution",
}
