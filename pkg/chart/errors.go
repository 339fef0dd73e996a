package chart

import (
	"fmt"
	"strings"
)

// Error kinds shared by the gateway, the normalizer and template recovery.
// Each one distinguishes a different remediation: a tool that could not run,
// output that could not be decoded, or a local file problem.

// ToolInvocationError indicates the chart tool could not be started, exited
// non-zero, or was stopped by the call timeout.
type ToolInvocationError struct {
	Args     []string
	ExitCode int    // -1 when the process never produced an exit status
	Stderr   string // captured standard error, trimmed
	TimedOut bool
	Err      error
}

func (e *ToolInvocationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "helm %s", strings.Join(e.Args, " "))
	switch {
	case e.TimedOut:
		b.WriteString(" timed out")
	case e.ExitCode >= 0:
		fmt.Fprintf(&b, " exited with code %d", e.ExitCode)
	default:
		b.WriteString(" could not be run")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Stderr != "" {
		fmt.Fprintf(&b, ": %s", e.Stderr)
	}
	return b.String()
}
func (e *ToolInvocationError) Unwrap() error { return e.Err }

// InvalidUTF8Error indicates tool output or a template file is not UTF-8 text.
type InvalidUTF8Error struct {
	Source string // e.g. "helm template output" or a file path
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("%s is not valid UTF-8", e.Source)
}

// YAMLParseError indicates structured output did not match the expected shape.
type YAMLParseError struct {
	Operation string // what was being decoded, e.g. "template output"
	Document  int    // zero-based document index, -1 when not applicable
	Err       error
}

func (e *YAMLParseError) Error() string {
	if e.Document >= 0 {
		return fmt.Sprintf("failed to parse %s (document %d): %v", e.Operation, e.Document, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: %v", e.Operation, e.Err)
}
func (e *YAMLParseError) Unwrap() error { return e.Err }

// IOError indicates a temporary file or chart tree access failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}
func (e *IOError) Unwrap() error { return e.Err }

// ConfigError indicates an argument cannot be passed to the chart tool or a
// configuration value is unusable.
type ConfigError struct {
	Argument string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Argument, e.Reason)
}
