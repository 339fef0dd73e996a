package helm

import (
	"context"
	"path"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
	"helm.sh/helm/v3/pkg/chartutil"

	"github.com/lucas-albers-lz4/helmad/pkg/chart"
	"github.com/lucas-albers-lz4/helmad/pkg/fileutil"
	"github.com/lucas-albers-lz4/helmad/pkg/manifest"
)

// MockGateway stands in for Gateway in tests of the layers above it.
type MockGateway struct {
	mu sync.Mutex

	// Mock responses
	Repositories []string
	Charts       map[string][]ChartSummary // repo -> search result
	Documents    []manifest.Document       // returned by Render
	RenderFunc   func(vals chartutil.Values) []manifest.Document
	// FetchFiles are written below <dest>/<chart name>/ on Fetch, keyed by
	// path relative to the chart root.
	FetchFiles map[string]string
	FS         afero.Fs
	// HelmVersion is returned by Version.
	HelmVersion string

	// Track calls for assertions
	FetchCallCount  int
	RenderCallCount int
	ListCallCount   int
	SearchCallCount int
	LastRenderRef   chart.Reference
	LastRenderName  string
	LastValues      chartutil.Values
	LastQuery       string
	RenderedValues  []chartutil.Values

	// Error simulation
	FetchError   error
	RenderError  error
	ListError    error
	SearchError  error
	VersionError error
}

// NewMockGateway creates a MockGateway writing fetched charts to fs.
func NewMockGateway(fs afero.Fs) *MockGateway {
	return &MockGateway{
		Charts:      make(map[string][]ChartSummary),
		FetchFiles:  make(map[string]string),
		FS:          fs,
		HelmVersion: "v3.18.4",
	}
}

// Fetch records the call and materializes FetchFiles.
func (m *MockGateway) Fetch(_ context.Context, ref chart.Reference, dest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCallCount++

	if m.FetchError != nil {
		return m.FetchError
	}

	root := path.Join(dest, ref.BaseName())
	if err := m.FS.MkdirAll(root, fileutil.ReadWriteExecuteUserReadExecuteOthers); err != nil {
		return err
	}
	for name, content := range m.FetchFiles {
		target := path.Join(root, name)
		if err := m.FS.MkdirAll(path.Dir(target), fileutil.ReadWriteExecuteUserReadExecuteOthers); err != nil {
			return err
		}
		if err := afero.WriteFile(m.FS, target, []byte(content), fileutil.ReadWriteUserReadOthers); err != nil {
			return err
		}
	}
	return nil
}

// Render records the call and returns Documents.
func (m *MockGateway) Render(_ context.Context, name string, ref chart.Reference, vals chartutil.Values) ([]manifest.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RenderCallCount++
	m.LastRenderName = name
	m.LastRenderRef = ref
	m.LastValues = vals
	m.RenderedValues = append(m.RenderedValues, vals)

	if m.RenderError != nil {
		return nil, m.RenderError
	}
	if m.RenderFunc != nil {
		return m.RenderFunc(vals), nil
	}
	return m.Documents, nil
}

// ListRepositories records the call and returns Repositories.
func (m *MockGateway) ListRepositories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCallCount++

	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.Repositories, nil
}

// SearchRepository records the call and returns Charts[repo].
func (m *MockGateway) SearchRepository(_ context.Context, repo, query string) ([]ChartSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchCallCount++
	m.LastQuery = query

	if m.SearchError != nil {
		return nil, m.SearchError
	}
	return m.Charts[repo], nil
}

// Version parses HelmVersion.
func (m *MockGateway) Version(_ context.Context) (*semver.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.VersionError != nil {
		return nil, m.VersionError
	}
	return semver.NewVersion(m.HelmVersion)
}
