package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUseTestLogger(t *testing.T) {
	// Nested and repeated use must restore cleanly.
	UseTestLogger(t)
	t.Run("nested", func(t *testing.T) { UseTestLogger(t) })
	t.Run("second", func(t *testing.T) { UseTestLogger(t) })
}

func TestStubHelm(t *testing.T) {
	path := StubHelm(t, RecordArgs+"echo ok\n")

	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, "helm", filepath.Base(path))
	assert.NotZero(t, info.Mode()&0o100, "stub must be executable")
	assert.False(t, StubRan(path))
}
