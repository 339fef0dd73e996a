package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/mattn/go-isatty"
	"sigs.k8s.io/yaml"

	"github.com/lucas-albers-lz4/helmad/internal/config"
	"github.com/lucas-albers-lz4/helmad/internal/helm"
	"github.com/lucas-albers-lz4/helmad/internal/session"
	"github.com/lucas-albers-lz4/helmad/pkg/manifest"
)

// descriptionWidth caps the description column of search results.
const descriptionWidth = 60

// printer projects command results onto the selected output format.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, format: format}
}

// structured writes v as YAML or JSON and reports whether it did.
func (p *printer) structured(v interface{}) (bool, error) {
	var (
		data []byte
		err  error
	)
	switch p.format {
	case config.OutputYAML:
		data, err = yaml.Marshal(v)
	case config.OutputJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	default:
		return false, nil
	}
	if err != nil {
		return true, fmt.Errorf("failed to encode %s output: %w", p.format, err)
	}
	_, err = p.w.Write(data)
	return true, err
}

func (p *printer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.SetStyle(tableStyle(p.w))
	return t
}

// tableStyle draws box characters on a terminal and plain ASCII otherwise.
func tableStyle(w io.Writer) table.Style {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return table.StyleLight
	}
	return table.StyleDefault
}

func (p *printer) repositories(names []string) error {
	if done, err := p.structured(map[string][]string{"repositories": names}); done {
		return err
	}
	if len(names) == 0 {
		_, err := fmt.Fprintln(p.w, "No repositories configured.")
		return err
	}

	t := p.newTable()
	t.AppendHeader(table.Row{"#", "Repository"})
	for i, name := range names {
		t.AppendRow(table.Row{i + 1, name})
	}
	t.Render()
	return nil
}

func (p *printer) charts(repo string, charts []helm.ChartSummary) error {
	if done, err := p.structured(map[string]interface{}{"repository": repo, "charts": charts}); done {
		return err
	}
	if len(charts) == 0 {
		_, err := fmt.Fprintf(p.w, "No charts found in %s.\n", repo)
		return err
	}

	t := p.newTable()
	t.AppendHeader(table.Row{"Name", "Chart Version", "App Version", "Description"})
	for _, c := range charts {
		t.AppendRow(table.Row{c.Name, c.Version, c.AppVersion, text.Trim(c.Description, descriptionWidth)})
	}
	t.Render()
	return nil
}

func (p *printer) chartView(view *session.ChartView, withTemplates bool) error {
	out := *view
	if !withTemplates {
		out.Templates = nil
	}
	if done, err := p.structured(out); done {
		return err
	}

	fmt.Fprintf(p.w, "Chart:     %s (%s)\n", view.Chart, view.Chart.Kind())
	fmt.Fprintf(p.w, "Release:   %s\n", view.ReleaseName)
	if md := view.Metadata; md != nil {
		fmt.Fprintf(p.w, "Version:   %s %s (app %s)\n", md.Name, md.Version, md.AppVersion)
	}
	fmt.Fprintf(p.w, "Resources: %d%s\n", len(view.Resources), kindSummary(view.Resources))
	p.resources(view.Resources)

	if withTemplates {
		fmt.Fprintf(p.w, "\nTemplates: %d\n", len(view.Templates))
		for _, f := range view.Templates {
			fmt.Fprintf(p.w, "--- templates/%s\n%s", f.FileName, f.Contents)
			if n := len(f.Contents); n > 0 && f.Contents[n-1] != '\n' {
				fmt.Fprintln(p.w)
			}
		}
	}
	return nil
}

// kindSummary renders per-kind counts, e.g. " (ConfigMap 1, Service 2)".
func kindSummary(resources []manifest.Resource) string {
	counts := manifest.CountByKind(resources)
	if len(counts) == 0 {
		return ""
	}
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s %d", kind, counts[kind]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func (p *printer) resources(resources []manifest.Resource) {
	if len(resources) == 0 {
		return
	}
	t := p.newTable()
	t.AppendHeader(table.Row{"#", "Kind", "Name", "Namespace", "API Version"})
	for i, r := range resources {
		t.AppendRow(table.Row{i + 1, r.Kind, r.Name, r.Namespace, r.APIVersion})
	}
	t.Render()
}

func (p *printer) diff(view *session.DiffView) error {
	out := struct {
		*session.DiffView
		Identical bool `json:"identical"`
	}{view, view.Identical()}
	if done, err := p.structured(out); done {
		return err
	}

	if view.Identical() {
		_, err := fmt.Fprintln(p.w, "No differences between base and head values.")
		return err
	}
	_, err := fmt.Fprint(p.w, view.Unified)
	return err
}
