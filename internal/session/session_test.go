package session

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"helm.sh/helm/v3/pkg/chartutil"

	"github.com/lucas-albers-lz4/helmad/internal/helm"
	"github.com/lucas-albers-lz4/helmad/pkg/chart"
	"github.com/lucas-albers-lz4/helmad/pkg/fileutil"
	"github.com/lucas-albers-lz4/helmad/pkg/manifest"
	"github.com/lucas-albers-lz4/helmad/pkg/testutil"
)

var renderedDocs = []manifest.Document{
	{"apiVersion": "v1", "kind": "Service", "metadata": map[string]interface{}{"name": "web"}},
	{"apiVersion": "apps/v1", "kind": "Deployment", "metadata": map[string]interface{}{"name": "web"}},
	{"apiVersion": "v1", "kind": "ConfigMap", "metadata": map[string]interface{}{"name": "web-config"}},
}

func newFixture(t *testing.T) (*Session, *helm.MockGateway, afero.Fs) {
	t.Helper()
	testutil.UseTestLogger(t)

	fs := afero.NewMemMapFs()
	gw := helm.NewMockGateway(fs)
	gw.FetchFiles["Chart.yaml"] = "apiVersion: v2\nname: web\nversion: 1.2.3\nappVersion: \"2.0\"\n"
	gw.FetchFiles["templates/service.yaml"] = "kind: Service\n"
	gw.FetchFiles["templates/NOTES.txt"] = "thanks\n"
	gw.Documents = renderedDocs
	return New(gw, fs), gw, fs
}

// tempEntries lists what is left in the temporary directory of fs.
func tempEntries(t *testing.T, fs afero.Fs) []string {
	t.Helper()
	infos, err := afero.ReadDir(fs, os.TempDir())
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names
}

func TestBrowseAndSearch(t *testing.T) {
	s, gw, _ := newFixture(t)
	gw.Repositories = []string{"bitnami", "jetstack"}
	gw.Charts["bitnami"] = []helm.ChartSummary{{Name: "bitnami/nginx", Version: "15.4.2"}}
	ctx := context.Background()

	repos, err := s.Browse(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bitnami", "jetstack"}, repos)

	charts, err := s.Search(ctx, "bitnami", "nginx")
	require.NoError(t, err)
	assert.Len(t, charts, 1)
	assert.Equal(t, "nginx", gw.LastQuery)

	gw.ListError = errors.New("boom")
	_, err = s.Browse(ctx)
	assert.EqualError(t, err, "boom")
}

func TestRenderRemote(t *testing.T) {
	s, gw, fs := newFixture(t)
	ref, err := chart.ParseRemote("bitnami/web", "^1.0.0")
	require.NoError(t, err)

	view, err := s.RenderRemote(context.Background(), ref, "demo", "replicaCount: 2\n")
	require.NoError(t, err)

	assert.Equal(t, ref, view.Chart)
	assert.Equal(t, "demo", view.ReleaseName)
	assert.Equal(t, chartutil.Values{"replicaCount": float64(2)}, view.Values)

	var kinds []string
	for _, r := range view.Resources {
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []string{"ConfigMap", "Deployment", "Service"}, kinds)

	require.NotNil(t, view.Metadata)
	assert.Equal(t, "web", view.Metadata.Name)
	assert.Equal(t, "1.2.3", view.Metadata.Version)

	require.Len(t, view.Templates, 1)
	assert.Equal(t, "service.yaml", view.Templates[0].FileName)

	// The unpacked directory is rendered, not the remote reference.
	assert.True(t, gw.LastRenderRef.IsLocal())
	assert.True(t, strings.HasSuffix(gw.LastRenderRef.Arg(), "web"))
	assert.Equal(t, 1, gw.FetchCallCount)

	assert.Empty(t, tempEntries(t, fs), "fetch directory must be removed")
}

func TestRenderRemoteFetchFailure(t *testing.T) {
	s, gw, fs := newFixture(t)
	gw.FetchError = &chart.ToolInvocationError{Args: []string{"pull"}, ExitCode: 1, Stderr: "not found"}
	ref, err := chart.ParseRemote("bitnami/missing", "")
	require.NoError(t, err)

	view, err := s.RenderRemote(context.Background(), ref, "demo", "")
	require.Error(t, err)
	assert.Nil(t, view)

	var invErr *chart.ToolInvocationError
	assert.True(t, errors.As(err, &invErr))
	assert.Equal(t, 0, gw.RenderCallCount, "render must not run after a failed fetch")
	assert.Empty(t, tempEntries(t, fs))
}

func TestRenderRemoteRenderFailure(t *testing.T) {
	s, gw, fs := newFixture(t)
	gw.RenderError = &chart.YAMLParseError{Operation: "template output", Document: 2, Err: errors.New("scalar")}
	ref, err := chart.ParseRemote("bitnami/web", "")
	require.NoError(t, err)

	view, err := s.RenderRemote(context.Background(), ref, "demo", "")
	assert.Nil(t, view)
	var parseErr *chart.YAMLParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, parseErr.Document)
	assert.Empty(t, tempEntries(t, fs))
}

func TestRenderRemoteInvalidValues(t *testing.T) {
	s, gw, _ := newFixture(t)
	ref, err := chart.ParseRemote("bitnami/web", "")
	require.NoError(t, err)

	_, err = s.RenderRemote(context.Background(), ref, "demo", "- a\n- b\n")
	var parseErr *chart.YAMLParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 0, gw.FetchCallCount)
}

func TestRenderRemoteRejectsLocal(t *testing.T) {
	s, _, fs := newFixture(t)
	require.NoError(t, fs.MkdirAll("/charts/web", fileutil.ReadWriteExecuteUserReadExecuteOthers))
	ref, err := chart.ParseLocal(fs, "/charts/web")
	require.NoError(t, err)

	_, err = s.RenderRemote(context.Background(), ref, "demo", "")
	var cfgErr *chart.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRenderRemoteTemplateFailure(t *testing.T) {
	s, gw, fs := newFixture(t)
	gw.FetchFiles["templates/broken.yaml"] = "kind: \xff\n"
	ref, err := chart.ParseRemote("bitnami/web", "")
	require.NoError(t, err)

	view, err := s.RenderRemote(context.Background(), ref, "demo", "")
	assert.Nil(t, view)
	var utfErr *chart.InvalidUTF8Error
	assert.True(t, errors.As(err, &utfErr))
	assert.Empty(t, tempEntries(t, fs))
}

func TestRenderLocal(t *testing.T) {
	s, gw, fs := newFixture(t)
	require.NoError(t, fs.MkdirAll("/charts/web/templates/sub", fileutil.ReadWriteExecuteUserReadExecuteOthers))
	require.NoError(t, afero.WriteFile(fs, "/charts/web/templates/sub/b.yml", []byte("kind: B\n"), fileutil.ReadWriteUserReadOthers))
	require.NoError(t, afero.WriteFile(fs, "/charts/web/templates/a.yaml", []byte("kind: A\n"), fileutil.ReadWriteUserReadOthers))

	ref, err := chart.ParseLocal(fs, "/charts/web")
	require.NoError(t, err)

	view, err := s.RenderLocal(context.Background(), ref, "demo", "")
	require.NoError(t, err)
	assert.Equal(t, 0, gw.FetchCallCount)
	assert.Equal(t, ref, gw.LastRenderRef)
	assert.Nil(t, view.Metadata, "chart without Chart.yaml has no metadata")
	assert.Equal(t, chartutil.Values{}, view.Values)

	require.Len(t, view.Templates, 2)
	assert.Equal(t, "a.yaml", view.Templates[0].FileName)
	assert.Equal(t, "sub/b.yml", view.Templates[1].FileName)
}

func TestRenderLocalRejectsRemote(t *testing.T) {
	s, gw, _ := newFixture(t)
	ref, err := chart.ParseRemote("bitnami/web", "")
	require.NoError(t, err)

	_, err = s.RenderLocal(context.Background(), ref, "demo", "")
	var cfgErr *chart.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 0, gw.RenderCallCount)
}
