package fileutil

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// DirExists checks if a directory exists at the given path. Symbolic links
// are followed when the filesystem supports them.
func DirExists(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat directory %s: %w", path, err)
	}
	return info.IsDir(), nil
}

// FileExists checks if a regular file exists at the given path.
func FileExists(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check if file exists: %w", err)
	}
	return info.Mode().IsRegular(), nil
}
