package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucas-albers-lz4/helmad/pkg/log"
)

// CaptureLogOutput redirects log output using log.SetOutput during test execution
// and returns captured content. The original output and log level are restored
// after testFunc completes.
// Example usage:
//
//	output, err := testutil.CaptureLogOutput(log.LevelDebug, func() {
//	    _, _ = gateway.ListRepositories(ctx)
//	})
//	require.NoError(t, err)
//	assert.Contains(t, output, "Helm command failed")
func CaptureLogOutput(logLevel log.Level, testFunc func()) (string, error) {
	originalLevel := log.CurrentLevel()

	var logBuf bytes.Buffer
	restoreLog := log.SetOutput(&logBuf)
	defer restoreLog()

	// Set the level after the output so a reconfiguration cannot reset it.
	log.SetLevel(logLevel)
	defer log.SetLevel(originalLevel)

	var panicErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = fmt.Errorf("panic during log capture: %v", r)
			}
		}()
		testFunc()
	}()

	return logBuf.String(), panicErr
}

// CaptureJSONLogs captures log output with LOG_FORMAT=json and parses each
// line. It returns the raw output, the parsed entries and the first error.
func CaptureJSONLogs(t *testing.T, logLevel log.Level, testFunc func()) (string, []map[string]interface{}, error) {
	t.Helper()
	t.Setenv("LOG_FORMAT", "json")

	output, err := CaptureLogOutput(logLevel, testFunc)
	if err != nil {
		return output, nil, err
	}

	var entries []map[string]interface{}
	for i, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return output, entries, fmt.Errorf("failed to unmarshal log line %d as JSON: %w\nLine content: %s", i+1, err, line)
		}
		entries = append(entries, entry)
	}
	return output, entries, nil
}

// AssertLogContainsJSON checks that some captured entry contains every
// key-value pair in expected.
func AssertLogContainsJSON(t *testing.T, logs []map[string]interface{}, expected map[string]interface{}) {
	t.Helper()
	for _, entry := range logs {
		if containsAll(entry, expected) {
			return
		}
	}

	var logBuffer bytes.Buffer
	encoder := json.NewEncoder(&logBuffer)
	encoder.SetIndent("", "  ")
	for _, entry := range logs {
		_ = encoder.Encode(entry) //nolint:errcheck // Ignore error for test helper
	}
	expectedJSON, _ := json.MarshalIndent(expected, "", "  ") //nolint:errcheck // Ignore error for test helper

	assert.Fail(t, "Expected log entry not found",
		"Expected log containing:\n%s\n\nActual captured logs:\n%s",
		string(expectedJSON), logBuffer.String())
}

// containsAll compares top-level fields. Numbers decoded from JSON are
// float64, so integer expectations are converted.
func containsAll(actual, expected map[string]interface{}) bool {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok {
			return false
		}
		if f, isFloat := got.(float64); isFloat {
			switch w := want.(type) {
			case int:
				if f != float64(w) {
					return false
				}
				continue
			case int64:
				if f != float64(w) {
					return false
				}
				continue
			}
		}
		if got != want {
			return false
		}
	}
	return true
}
