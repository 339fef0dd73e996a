package testutil

import (
	"bytes"
	"testing"

	"github.com/lucas-albers-lz4/helmad/pkg/log"
)

// UseTestLogger captures log output for the duration of the test and prints it
// only when the test fails. Verbose runs keep logging to stderr. Tests using it
// must not run in parallel since the logger is global.
func UseTestLogger(t *testing.T) {
	t.Helper()
	if testing.Verbose() {
		return
	}

	var logBuf bytes.Buffer
	restore := log.SetOutput(&logBuf)

	t.Cleanup(func() {
		restore()
		if t.Failed() {
			t.Logf("Log output captured during test:\n%s", logBuf.String())
		}
	})
}
