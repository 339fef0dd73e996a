package main

import (
	"errors"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lucas-albers-lz4/helmad/pkg/chart"
	"github.com/lucas-albers-lz4/helmad/pkg/exitcodes"
	"github.com/lucas-albers-lz4/helmad/pkg/fileutil"
)

// stdinPath selects standard input as a values file.
const stdinPath = "-"

// chartFlags are the chart selection flags shared by render and diff.
type chartFlags struct {
	chartPath   string
	releaseName string
	version     string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.chartPath, "chart-path", "", "path to a local chart directory instead of a repo/chart argument")
	cmd.Flags().StringVar(&f.releaseName, "name", "", "release name to render with (required)")
	cmd.Flags().StringVar(&f.version, "version", "", "version constraint for a remote chart")
}

// reference decides between the positional repo/chart argument and
// --chart-path. Exactly one of them must be given.
func (f *chartFlags) reference(args []string) (chart.Reference, error) {
	if f.releaseName == "" {
		return chart.Reference{}, missingFlag("name")
	}

	switch {
	case len(args) == 1 && f.chartPath != "":
		return chart.Reference{}, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  &chart.ConfigError{Argument: "chart", Reason: "give either a repo/chart argument or --chart-path, not both"},
		}
	case f.chartPath != "":
		if f.version != "" {
			return chart.Reference{}, &chart.ConfigError{Argument: "version", Reason: "--version only applies to remote charts"}
		}
		return chart.ParseLocal(AppFs, f.chartPath)
	case len(args) == 1:
		return chart.ParseRemote(args[0], f.version)
	default:
		return chart.Reference{}, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitMissingRequiredFlag,
			Err:  errors.New("a repo/chart argument or --chart-path is required"),
		}
	}
}

// readValues returns the contents of a values file, stdin for "-", or empty
// text when no file was given.
func readValues(cmd *cobra.Command, path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case stdinPath:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", &chart.IOError{Op: "read values", Path: "stdin", Err: err}
		}
		return string(data), nil
	}

	ok, err := fileutil.FileExists(AppFs, path)
	if err != nil {
		return "", &chart.IOError{Op: "stat values", Path: path, Err: err}
	}
	if !ok {
		return "", &chart.ConfigError{Argument: "values file", Reason: path + " is not a file"}
	}

	data, err := afero.ReadFile(AppFs, path)
	if err != nil {
		return "", &chart.IOError{Op: "read values", Path: path, Err: err}
	}
	return string(data), nil
}
