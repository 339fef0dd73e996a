package helm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
	"helm.sh/helm/v3/pkg/chartutil"

	"github.com/lucas-albers-lz4/helmad/pkg/chart"
	"github.com/lucas-albers-lz4/helmad/pkg/fileutil"
	log "github.com/lucas-albers-lz4/helmad/pkg/log"
	"github.com/lucas-albers-lz4/helmad/pkg/manifest"
)

// noRepositoriesMessage is what helm prints, with exit code 1, when no
// repository is configured.
const noRepositoriesMessage = "no repositories to show"

// Fetch pulls a remote chart and unpacks it into dest/<chart name>.
func (g *Gateway) Fetch(ctx context.Context, ref chart.Reference, dest string) error {
	if ref.IsLocal() {
		return &chart.ConfigError{Argument: "chart reference", Reason: "local chart " + ref.Arg() + " cannot be pulled"}
	}
	if err := chart.CheckArgument("destination", dest); err != nil {
		return err
	}

	args := []string{"pull", ref.Arg(), "--untar", "--destination", dest}
	if v := ref.Version(); v != "" {
		args = append(args, "--version", v)
	}

	if _, err := g.run(ctx, args...); err != nil {
		return err
	}
	log.Info("Pulled chart", "chart", ref.String(), "destination", dest)
	return nil
}

// Render runs helm template for the chart with vals written to a temporary
// values file, and decodes the output stream. The values file is removed
// whatever the outcome.
func (g *Gateway) Render(ctx context.Context, name string, ref chart.Reference, vals chartutil.Values) ([]manifest.Document, error) {
	if err := chart.CheckArgument("release name", name); err != nil {
		return nil, err
	}

	data, err := chart.SerializeValues(vals)
	if err != nil {
		return nil, err
	}

	var docs []manifest.Document
	err = fileutil.WithTempFile(g.fs, "helmad-values-*.yaml", data, func(valuesFile string) error {
		args := []string{"template", name, ref.Arg(), "-f", valuesFile}
		if v := ref.Version(); v != "" && !ref.IsLocal() {
			args = append(args, "--version", v)
		}

		out, err := g.run(ctx, args...)
		if err != nil {
			return err
		}
		if !utf8.Valid(out) {
			return &chart.InvalidUTF8Error{Source: "helm template output"}
		}

		docs, err = manifest.Decode(out)
		return err
	})
	if err != nil {
		if errors.Is(err, fileutil.ErrTempResource) {
			return nil, &chart.IOError{Op: "write values file", Err: err}
		}
		return nil, err
	}

	log.Debug("Rendered chart", "chart", ref.String(), "release", name, "documents", len(docs))
	return docs, nil
}

// ListRepositories returns the configured repository names, sorted. Entries
// without a string name are listed as "unknown" instead of failing the call.
func (g *Gateway) ListRepositories(ctx context.Context) ([]string, error) {
	out, err := g.run(ctx, "repo", "list", "-o", "yaml")
	if err != nil {
		var invErr *chart.ToolInvocationError
		if errors.As(err, &invErr) && strings.Contains(invErr.Stderr, noRepositoriesMessage) {
			log.Info("No helm repositories configured")
			return []string{}, nil
		}
		return nil, err
	}
	if !utf8.Valid(out) {
		return nil, &chart.InvalidUTF8Error{Source: "helm repo list output"}
	}

	var entries []interface{}
	if err := yaml.Unmarshal(out, &entries); err != nil {
		return nil, &chart.YAMLParseError{Operation: "repo list output", Document: -1, Err: err}
	}

	names := make([]string, 0, len(entries))
	for i, entry := range entries {
		names = append(names, repositoryName(i, entry))
	}
	sort.Strings(names)
	return names, nil
}

func repositoryName(index int, entry interface{}) string {
	m, ok := entry.(map[string]interface{})
	if !ok {
		log.Warn("Repository entry is not a mapping", "index", index)
		return UnknownRepository
	}
	name, ok := m["name"].(string)
	if !ok {
		log.Warn("Repository entry has no name", "index", index)
		return UnknownRepository
	}
	return name
}

// SearchRepository lists the charts of repo, optionally filtered by query,
// sorted by name. Output that does not decode into summaries fails the call.
func (g *Gateway) SearchRepository(ctx context.Context, repo, query string) ([]ChartSummary, error) {
	if err := chart.CheckArgument("repository", repo); err != nil {
		return nil, err
	}

	args := []string{"search", "repo", repo}
	if query != "" {
		if err := chart.CheckArgument("search query", query); err != nil {
			return nil, err
		}
		args = append(args, query)
	}
	args = append(args, "-o", "yaml")

	out, err := g.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(out) {
		return nil, &chart.InvalidUTF8Error{Source: "helm search output"}
	}

	charts := make([]ChartSummary, 0)
	if err := yaml.Unmarshal(out, &charts); err != nil {
		return nil, &chart.YAMLParseError{Operation: "search output", Document: -1, Err: err}
	}
	SortChartSummaries(charts)
	return charts, nil
}

// Version returns the version of the helm binary.
func (g *Gateway) Version(ctx context.Context) (*semver.Version, error) {
	out, err := g.run(ctx, "version", "--short")
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(string(out))
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse helm version %q: %w", raw, err)
	}
	return v, nil
}
