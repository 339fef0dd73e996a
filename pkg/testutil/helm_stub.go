// Package testutil provides utility functions for testing.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/helmad/pkg/fileutil"
)

// RecordArgs is a stub helm body fragment that writes the received
// arguments, one per line, to args.txt next to the stub.
const RecordArgs = `printf '%s\n' "$@" > "$(dirname "$0")/args.txt"
`

// StubHelm writes an executable POSIX shell script named helm into a fresh
// temporary directory and returns its path. body is the script after the
// shebang line. Tests using it are skipped on Windows.
func StubHelm(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub helm scripts need a POSIX shell")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "helm")
	script := "#!/bin/sh\n" + body
	require.NoError(t, os.WriteFile(path, []byte(script), fileutil.ReadWriteExecuteUserReadExecuteOthers))
	return path
}

// RecordedArgs returns the arguments captured by RecordArgs for the stub at
// stubPath.
func RecordedArgs(t *testing.T, stubPath string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(stubPath), "args.txt"))
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

// StubRan reports whether a stub using RecordArgs was executed.
func StubRan(stubPath string) bool {
	_, err := os.Stat(filepath.Join(filepath.Dir(stubPath), "args.txt"))
	return err == nil
}
