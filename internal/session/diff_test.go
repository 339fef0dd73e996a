package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"helm.sh/helm/v3/pkg/chartutil"

	"github.com/lucas-albers-lz4/helmad/pkg/chart"
	"github.com/lucas-albers-lz4/helmad/pkg/fileutil"
	"github.com/lucas-albers-lz4/helmad/pkg/manifest"
)

// replicaDocs renders a Deployment whose replica count follows the values.
func replicaDocs(vals chartutil.Values) []manifest.Document {
	replicas := vals["replicaCount"]
	if replicas == nil {
		replicas = float64(1)
	}
	return []manifest.Document{
		{"kind": "Service", "metadata": map[string]interface{}{"name": "web"}},
		{"kind": "Deployment", "metadata": map[string]interface{}{"name": "web"},
			"spec": map[string]interface{}{"replicas": replicas}},
	}
}

func TestDiff(t *testing.T) {
	s, gw, fs := newFixture(t)
	gw.RenderFunc = replicaDocs
	ref, err := chart.ParseRemote("bitnami/web", "")
	require.NoError(t, err)

	view, err := s.Diff(context.Background(), ref, "demo", "replicaCount: 1\n", "replicaCount: 3\n")
	require.NoError(t, err)

	assert.False(t, view.Identical())
	assert.Contains(t, view.Unified, "--- base")
	assert.Contains(t, view.Unified, "+++ head")
	assert.Contains(t, view.Unified, "-  replicas: 1")
	assert.Contains(t, view.Unified, "+  replicas: 3")
	assert.Equal(t, 1, gw.FetchCallCount, "remote chart is pulled once for both renders")
	assert.Equal(t, 2, gw.RenderCallCount)
	assert.True(t, gw.LastRenderRef.IsLocal())
	assert.Equal(t, "Deployment", view.Base[0].Kind)
	assert.Empty(t, tempEntries(t, fs))
}

func TestDiffLocalChart(t *testing.T) {
	s, gw, fs := newFixture(t)
	gw.RenderFunc = replicaDocs
	require.NoError(t, fs.MkdirAll("/charts/web/templates", fileutil.ReadWriteExecuteUserReadExecuteOthers))
	ref, err := chart.ParseLocal(fs, "/charts/web")
	require.NoError(t, err)

	view, err := s.Diff(context.Background(), ref, "demo", "", "replicaCount: 4\n")
	require.NoError(t, err)
	assert.Contains(t, view.Unified, "+  replicas: 4")
	assert.Equal(t, 0, gw.FetchCallCount)
	assert.Equal(t, ref, gw.LastRenderRef)
}

func TestDiffFetchFailure(t *testing.T) {
	s, gw, fs := newFixture(t)
	gw.FetchError = &chart.ToolInvocationError{Args: []string{"pull"}, ExitCode: 1}
	ref, err := chart.ParseRemote("bitnami/web", "")
	require.NoError(t, err)

	_, err = s.Diff(context.Background(), ref, "demo", "", "")
	var invErr *chart.ToolInvocationError
	assert.True(t, errors.As(err, &invErr))
	assert.Equal(t, 0, gw.RenderCallCount)
	assert.Empty(t, tempEntries(t, fs))
}

func TestDiffIdentical(t *testing.T) {
	s, gw, _ := newFixture(t)
	gw.RenderFunc = replicaDocs
	ref, err := chart.ParseRemote("bitnami/web", "")
	require.NoError(t, err)

	view, err := s.Diff(context.Background(), ref, "demo", "replicaCount: 2\n", "replicaCount: 2\n")
	require.NoError(t, err)
	assert.True(t, view.Identical())
}

func TestDiffInvalidHeadValues(t *testing.T) {
	s, gw, _ := newFixture(t)
	ref, err := chart.ParseRemote("bitnami/web", "")
	require.NoError(t, err)

	_, err = s.Diff(context.Background(), ref, "demo", "", "[1, 2]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "head values")
	assert.Equal(t, 0, gw.RenderCallCount)
}

func TestResourceStream(t *testing.T) {
	text, err := resourceStream(manifest.Normalize(replicaDocs(chartutil.Values{"replicaCount": 2})))
	require.NoError(t, err)
	assert.Equal(t, "---\nkind: Deployment\nmetadata:\n  name: web\nspec:\n  replicas: 2\n---\nkind: Service\nmetadata:\n  name: web\n", text)
}
