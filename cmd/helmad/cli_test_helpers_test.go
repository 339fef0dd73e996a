package main

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/helmad/internal/config"
	"github.com/lucas-albers-lz4/helmad/internal/helm"
	"github.com/lucas-albers-lz4/helmad/pkg/fileutil"
	"github.com/lucas-albers-lz4/helmad/pkg/manifest"
	"github.com/lucas-albers-lz4/helmad/pkg/testutil"
)

// setupMockGateway swaps the filesystem and gateway factory for an in-memory
// filesystem and a MockGateway preloaded with a small chart.
func setupMockGateway(t *testing.T) (*helm.MockGateway, afero.Fs) {
	t.Helper()
	testutil.UseTestLogger(t)
	t.Setenv("HOME", "/home/test")

	fs := afero.NewMemMapFs()
	origFs := AppFs
	AppFs = fs
	t.Cleanup(func() { AppFs = origFs })

	gw := helm.NewMockGateway(fs)
	gw.FetchFiles["Chart.yaml"] = "apiVersion: v2\nname: web\nversion: 1.2.3\nappVersion: \"2.0\"\n"
	gw.FetchFiles["templates/service.yaml"] = "apiVersion: v1\nkind: Service\n"
	gw.Documents = []manifest.Document{
		{"apiVersion": "v1", "kind": "Service", "metadata": map[string]interface{}{"name": "web"}},
		{"apiVersion": "apps/v1", "kind": "Deployment", "metadata": map[string]interface{}{"name": "web", "namespace": "apps"}},
		{"apiVersion": "v1", "kind": "ConfigMap", "metadata": map[string]interface{}{"name": "web-config"}},
	}

	origFactory := newGateway
	newGateway = func(*config.Config) (Gateway, error) { return gw, nil }
	t.Cleanup(func() { newGateway = origFactory })

	return gw, fs
}

// runCLI executes the CLI and returns stdout, stderr and the exit code.
func runCLI(args ...string) (stdout, stderr string, code int) {
	var out, errOut bytes.Buffer
	code = execute(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), fileutil.ReadWriteUserReadOthers))
}
