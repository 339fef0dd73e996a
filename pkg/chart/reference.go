package chart

import (
	"encoding/json"
	"path"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/distribution/reference"
	"github.com/spf13/afero"

	"github.com/lucas-albers-lz4/helmad/pkg/fileutil"
)

// SourceKind tells a remote chart reference from a local chart directory.
type SourceKind int

const (
	// SourceRemote is a chart that has to be pulled from a repository.
	SourceRemote SourceKind = iota
	// SourceLocal is an unpacked chart directory on disk.
	SourceLocal
)

func (k SourceKind) String() string {
	if k == SourceLocal {
		return "local"
	}
	return "remote"
}

const ociPrefix = "oci://"

// Reference identifies a chart either as a repository reference
// (repo/chart or oci://registry/path/chart) or as a local directory.
// The variant is fixed when the reference is parsed.
type Reference struct {
	kind    SourceKind
	value   string
	version string
}

// ParseRemote builds a remote reference. versionConstraint may be empty;
// otherwise it must be a valid semver constraint and is passed to the pull.
func ParseRemote(ref, versionConstraint string) (Reference, error) {
	ref = strings.TrimSpace(ref)
	if err := CheckArgument("chart reference", ref); err != nil {
		return Reference{}, err
	}

	if strings.HasPrefix(ref, ociPrefix) {
		if _, err := reference.ParseNormalizedNamed(strings.TrimPrefix(ref, ociPrefix)); err != nil {
			return Reference{}, &ConfigError{Argument: "chart reference", Reason: "invalid OCI reference " + ref + ": " + err.Error()}
		}
	} else {
		parts := strings.Split(ref, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return Reference{}, &ConfigError{Argument: "chart reference", Reason: ref + " is not of the form repo/chart"}
		}
	}

	versionConstraint = strings.TrimSpace(versionConstraint)
	if versionConstraint != "" {
		if _, err := semver.NewConstraint(versionConstraint); err != nil {
			return Reference{}, &ConfigError{Argument: "chart version", Reason: err.Error()}
		}
	}

	return Reference{kind: SourceRemote, value: ref, version: versionConstraint}, nil
}

// ParseLocal builds a local reference to an existing chart directory.
func ParseLocal(fs afero.Fs, dir string) (Reference, error) {
	if err := CheckArgument("chart path", dir); err != nil {
		return Reference{}, err
	}
	dir = filepath.Clean(dir)

	ok, err := fileutil.DirExists(fs, dir)
	if err != nil {
		return Reference{}, &IOError{Op: "stat chart directory", Path: dir, Err: err}
	}
	if !ok {
		return Reference{}, &ConfigError{Argument: "chart path", Reason: dir + " is not a directory"}
	}

	return Reference{kind: SourceLocal, value: dir}, nil
}

// CheckArgument rejects values that cannot be passed to the chart tool as a
// single positional argument.
func CheckArgument(name, value string) error {
	switch {
	case value == "":
		return &ConfigError{Argument: name, Reason: "must not be empty"}
	case strings.HasPrefix(value, "-"):
		return &ConfigError{Argument: name, Reason: value + " would be read as a flag"}
	case strings.ContainsAny(value, "\x00\n\r"):
		return &ConfigError{Argument: name, Reason: "contains control characters"}
	}
	return nil
}

// Kind returns the variant of the reference.
func (r Reference) Kind() SourceKind { return r.kind }

// IsLocal reports whether the reference points at a chart directory.
func (r Reference) IsLocal() bool { return r.kind == SourceLocal }

// Arg is the value handed to the chart tool.
func (r Reference) Arg() string { return r.value }

// Version is the optional version constraint of a remote reference.
func (r Reference) Version() string { return r.version }

// BaseName is the trailing path segment, which is also the directory name
// an untarred pull produces.
func (r Reference) BaseName() string {
	if r.kind == SourceLocal {
		return filepath.Base(r.value)
	}
	name := strings.TrimPrefix(r.value, ociPrefix)
	if named, err := reference.ParseNormalizedNamed(name); err == nil {
		return path.Base(reference.Path(named))
	}
	return path.Base(name)
}

func (r Reference) String() string {
	if r.version != "" {
		return r.value + "@" + r.version
	}
	return r.value
}

// MarshalJSON renders the reference for YAML/JSON output.
func (r Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string `json:"kind"`
		Ref     string `json:"ref"`
		Version string `json:"version,omitempty"`
	}{
		Kind:    r.kind.String(),
		Ref:     r.value,
		Version: r.version,
	})
}
