package fileutil

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	log "github.com/lucas-albers-lz4/helmad/pkg/log"
)

// ErrTempResource marks failures to create or populate a temporary file or
// directory, as opposed to failures returned by the scoped function.
var ErrTempResource = errors.New("temporary resource")

// WithTempDir creates a temporary directory, passes its path to fn and removes
// the directory and everything below it once fn returns, whatever the outcome.
func WithTempDir(fs afero.Fs, prefix string, fn func(dir string) error) error {
	dir, err := afero.TempDir(fs, "", prefix)
	if err != nil {
		return fmt.Errorf("%w: create directory with prefix %q: %w", ErrTempResource, prefix, err)
	}
	defer func() {
		if rmErr := fs.RemoveAll(dir); rmErr != nil {
			log.Warn("Failed to remove temporary directory", "dir", dir, "error", rmErr)
		}
	}()

	return fn(dir)
}

// WithTempFile writes data to a new temporary file (owner read/write only),
// passes its path to fn and removes the file once fn returns.
func WithTempFile(fs afero.Fs, pattern string, data []byte, fn func(path string) error) error {
	f, err := afero.TempFile(fs, "", pattern)
	if err != nil {
		return fmt.Errorf("%w: create file with pattern %q: %w", ErrTempResource, pattern, err)
	}
	path := f.Name()
	defer func() {
		if rmErr := fs.Remove(path); rmErr != nil {
			log.Warn("Failed to remove temporary file", "path", path, "error", rmErr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write %s: %w", ErrTempResource, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrTempResource, path, err)
	}

	return fn(path)
}
