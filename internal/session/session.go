// Package session runs the chart workflows behind each command: browsing
// repositories, searching them, and rendering a chart into a ChartView.
// Every workflow is sequential and keeps no state between calls, so a
// Session may be used from several goroutines.
package session

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/afero"
	helmchart "helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chartutil"

	"github.com/lucas-albers-lz4/helmad/internal/helm"
	"github.com/lucas-albers-lz4/helmad/pkg/chart"
	"github.com/lucas-albers-lz4/helmad/pkg/fileutil"
	log "github.com/lucas-albers-lz4/helmad/pkg/log"
	"github.com/lucas-albers-lz4/helmad/pkg/manifest"
	"github.com/lucas-albers-lz4/helmad/pkg/templates"
)

// fetchDirPrefix names the scoped directory a remote chart is pulled into.
const fetchDirPrefix = "helmad-chart-"

// Gateway is the part of the helm gateway a Session needs.
type Gateway interface {
	Fetch(ctx context.Context, ref chart.Reference, dest string) error
	Render(ctx context.Context, name string, ref chart.Reference, vals chartutil.Values) ([]manifest.Document, error)
	ListRepositories(ctx context.Context) ([]string, error)
	SearchRepository(ctx context.Context, repo, query string) ([]helm.ChartSummary, error)
}

// ChartView is the result of rendering one chart with one values set.
type ChartView struct {
	Chart       chart.Reference     `json:"chart"`
	ReleaseName string              `json:"releaseName"`
	Metadata    *helmchart.Metadata `json:"metadata,omitempty"`
	Values      chartutil.Values    `json:"values"`
	Resources   []manifest.Resource `json:"resources"`
	Templates   []templates.File    `json:"templates"`
}

// Session wires the gateway to the normalizer and template recovery.
type Session struct {
	gateway Gateway
	fs      afero.Fs
}

// New returns a Session. fs is used for the scoped fetch directory, Chart.yaml
// and template recovery; nil means the OS filesystem.
func New(gateway Gateway, fs afero.Fs) *Session {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Session{gateway: gateway, fs: fs}
}

// Browse lists the configured repositories.
func (s *Session) Browse(ctx context.Context) ([]string, error) {
	return s.gateway.ListRepositories(ctx)
}

// Search lists the charts in repo, optionally filtered by query.
func (s *Session) Search(ctx context.Context, repo, query string) ([]helm.ChartSummary, error) {
	return s.gateway.SearchRepository(ctx, repo, query)
}

// RenderRemote pulls ref into a scoped temporary directory, renders the
// unpacked chart with valuesText and recovers its templates. The directory
// is removed before returning.
func (s *Session) RenderRemote(ctx context.Context, ref chart.Reference, name, valuesText string) (*ChartView, error) {
	if ref.IsLocal() {
		return nil, &chart.ConfigError{Argument: "chart reference", Reason: ref.Arg() + " is a local chart"}
	}
	vals, err := chart.ParseValues(valuesText)
	if err != nil {
		return nil, err
	}
	return s.renderRemote(ctx, ref, name, vals)
}

// RenderLocal renders the chart directory ref with valuesText and recovers
// its templates. Nothing is fetched.
func (s *Session) RenderLocal(ctx context.Context, ref chart.Reference, name, valuesText string) (*ChartView, error) {
	if !ref.IsLocal() {
		return nil, &chart.ConfigError{Argument: "chart path", Reason: ref.Arg() + " is not a local chart"}
	}
	vals, err := chart.ParseValues(valuesText)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, ref, ref, name, vals)
}

func (s *Session) renderRemote(ctx context.Context, ref chart.Reference, name string, vals chartutil.Values) (*ChartView, error) {
	var view *ChartView
	err := s.withChart(ctx, ref, func(target chart.Reference) error {
		var err error
		view, err = s.build(ctx, ref, target, name, vals)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// withChart calls fn with a local reference to the chart files of ref. A
// remote chart is pulled once into a scoped directory that is removed after
// fn returns.
func (s *Session) withChart(ctx context.Context, ref chart.Reference, fn func(target chart.Reference) error) error {
	if ref.IsLocal() {
		return fn(ref)
	}
	err := fileutil.WithTempDir(s.fs, fetchDirPrefix, func(dir string) error {
		if err := s.gateway.Fetch(ctx, ref, dir); err != nil {
			return err
		}
		unpacked, err := chart.ParseLocal(s.fs, filepath.Join(dir, ref.BaseName()))
		if err != nil {
			return err
		}
		return fn(unpacked)
	})
	if errors.Is(err, fileutil.ErrTempResource) {
		return &chart.IOError{Op: "create fetch directory", Err: err}
	}
	return err
}

// build renders target and collects metadata and templates from it. origin is
// the reference reported in the view.
func (s *Session) build(ctx context.Context, origin, target chart.Reference, name string, vals chartutil.Values) (*ChartView, error) {
	docs, err := s.gateway.Render(ctx, name, target, vals)
	if err != nil {
		return nil, err
	}
	resources := manifest.Normalize(docs)

	md, err := chart.LoadMetadata(s.fs, target.Arg())
	if err != nil {
		return nil, err
	}

	files, err := templates.Recover(s.fs, target.Arg())
	if err != nil {
		return nil, err
	}

	log.Info("Rendered chart", "chart", origin.String(), "release", name,
		"resources", len(resources), "templates", len(files))

	return &ChartView{
		Chart:       origin,
		ReleaseName: name,
		Metadata:    md,
		Values:      vals,
		Resources:   resources,
		Templates:   files,
	}, nil
}
