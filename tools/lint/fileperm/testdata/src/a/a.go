package a

import "os"

const chartPerm = 0o644

func writeValues(path string, data []byte) error {
	if err := os.MkdirAll(path, 0o755); err != nil { // want `use fileutil.ReadWriteExecuteUserReadExecuteOthers instead of hardcoded 0o755 in MkdirAll`
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil { // want `use fileutil.ReadWriteUserPermission instead of hardcoded 0600 in WriteFile`
		return err
	}
	if err := os.Chmod(path, 0o700); err != nil { // want `hardcoded file permission 0o700 in Chmod; add a constant to pkg/fileutil`
		return err
	}
	return os.WriteFile(path, data, chartPerm)
}

type store struct{}

func (store) AtomicWriteFile(path string, data []byte, perm os.FileMode) error { return nil }

func saveIndex(s store, path string, data []byte) error {
	return s.AtomicWriteFile(path, data, 0o644) // want `use fileutil.ReadWriteUserReadOthers instead of hardcoded 0o644 in AtomicWriteFile`
}
