// Package templates recovers a chart's raw template files from disk without
// interpreting them.
package templates

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/lucas-albers-lz4/helmad/pkg/chart"
	log "github.com/lucas-albers-lz4/helmad/pkg/log"
)

// DirName is the chart subdirectory holding templates.
const DirName = "templates"

// maxDepth bounds directory nesting below templates/. Symbolic links are
// followed, so a link cycle would otherwise never terminate.
const maxDepth = 32

// File is one template file as found on disk.
type File struct {
	// FileName is the slash-separated path relative to templates/.
	FileName string `json:"fileName"`
	Contents string `json:"contents"`
}

// Recover collects every .yaml and .yml file below <chartDir>/templates,
// following symbolic links, ordered by FileName. A chart without a templates
// directory yields an empty result. Any file that cannot be read, or is not
// UTF-8, fails the whole recovery.
func Recover(fs afero.Fs, chartDir string) ([]File, error) {
	root := filepath.Join(chartDir, DirName)
	files := make([]File, 0)

	info, err := fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("Chart has no templates directory", "chartDir", chartDir)
			return files, nil
		}
		return nil, &chart.IOError{Op: "stat", Path: root, Err: err}
	}
	if !info.IsDir() {
		log.Debug("Chart templates path is not a directory", "path", root)
		return files, nil
	}

	w := &walker{fs: fs}
	if err := w.walk(root, "", 0, &files); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].FileName < files[j].FileName
	})
	log.Debug("Recovered template files", "chartDir", chartDir, "count", len(files))
	return files, nil
}

// IsTemplateFile reports whether a file name has a manifest template extension.
func IsTemplateFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

type walker struct {
	fs afero.Fs
}

func (w *walker) walk(dir, rel string, depth int, files *[]File) error {
	if depth > maxDepth {
		return &chart.IOError{Op: "walk", Path: dir, Err: errors.Errorf("directory nesting exceeds %d levels, possible symlink loop", maxDepth)}
	}

	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return &chart.IOError{Op: "read directory", Path: dir, Err: errors.Wrap(err, "failed to list templates")}
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		relName := path.Join(rel, entry.Name())

		// Stat follows symbolic links; the directory listing does not.
		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			info, err = w.fs.Stat(full)
			if err != nil {
				return &chart.IOError{Op: "stat", Path: full, Err: errors.Wrap(err, "failed to follow symbolic link")}
			}
		}

		switch {
		case info.IsDir():
			if err := w.walk(full, relName, depth+1, files); err != nil {
				return err
			}
		case info.Mode().IsRegular() && IsTemplateFile(entry.Name()):
			f, err := w.read(full, relName)
			if err != nil {
				return err
			}
			*files = append(*files, f)
		}
	}
	return nil
}

func (w *walker) read(full, relName string) (File, error) {
	data, err := afero.ReadFile(w.fs, full)
	if err != nil {
		return File{}, &chart.IOError{Op: "read", Path: full, Err: errors.Wrapf(err, "failed to read template %s", relName)}
	}
	if !utf8.Valid(data) {
		return File{}, &chart.InvalidUTF8Error{Source: full}
	}
	return File{FileName: relName, Contents: string(data)}, nil
}
