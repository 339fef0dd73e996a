package main

import (
	"errors"
	"strings"

	"github.com/lucas-albers-lz4/helmad/pkg/chart"
	"github.com/lucas-albers-lz4/helmad/pkg/exitcodes"
)

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitcodes.ExitSuccess
	}
	if code, ok := exitcodes.IsExitCodeError(err); ok {
		return code
	}

	var (
		invErr   *chart.ToolInvocationError
		utfErr   *chart.InvalidUTF8Error
		parseErr *chart.YAMLParseError
		ioErr    *chart.IOError
		cfgErr   *chart.ConfigError
	)
	switch {
	case errors.As(err, &invErr):
		if invErr.TimedOut {
			return exitcodes.ExitHelmCommandTimeout
		}
		return exitcodes.ExitHelmCommandFailed
	case errors.As(err, &utfErr):
		return exitcodes.ExitInvalidUTF8
	case errors.As(err, &parseErr):
		return exitcodes.ExitYAMLParseError
	case errors.As(err, &ioErr):
		return exitcodes.ExitIOError
	case errors.As(err, &cfgErr):
		return exitcodes.ExitInputConfigurationError
	case isUsageError(err):
		return exitcodes.ExitInputConfigurationError
	default:
		return exitcodes.ExitGeneralRuntimeError
	}
}

// isUsageError recognizes the argument and flag errors cobra reports as plain
// errors.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "accepts ", "requires at least", "invalid argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// missingFlag reports a required flag that was not given.
func missingFlag(name string) error {
	return &exitcodes.ExitCodeError{
		Code: exitcodes.ExitMissingRequiredFlag,
		Err:  errors.New("required flag --" + name + " not set"),
	}
}
