package session

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"sigs.k8s.io/yaml"

	"github.com/lucas-albers-lz4/helmad/pkg/chart"
	"github.com/lucas-albers-lz4/helmad/pkg/manifest"
)

// diffContext is the number of unchanged lines shown around a change.
const diffContext = 3

// DiffView compares the resources one chart renders with two values sets.
type DiffView struct {
	Chart       chart.Reference     `json:"chart"`
	ReleaseName string              `json:"releaseName"`
	Base        []manifest.Resource `json:"base"`
	Head        []manifest.Resource `json:"head"`
	Unified     string              `json:"unified"`
}

// Identical reports whether both renders produced the same resources.
func (d *DiffView) Identical() bool {
	return d.Unified == ""
}

// Diff renders ref once with baseValuesText and once with headValuesText,
// pulling a remote chart only once, and
// returns a unified diff of the normalized resources, one YAML document per
// resource in kind order.
func (s *Session) Diff(ctx context.Context, ref chart.Reference, name, baseValuesText, headValuesText string) (*DiffView, error) {
	baseVals, err := chart.ParseValues(baseValuesText)
	if err != nil {
		return nil, fmt.Errorf("base values: %w", err)
	}
	headVals, err := chart.ParseValues(headValuesText)
	if err != nil {
		return nil, fmt.Errorf("head values: %w", err)
	}

	var base, head *ChartView
	err = s.withChart(ctx, ref, func(target chart.Reference) error {
		var err error
		if base, err = s.build(ctx, ref, target, name, baseVals); err != nil {
			return err
		}
		head, err = s.build(ctx, ref, target, name, headVals)
		return err
	})
	if err != nil {
		return nil, err
	}

	baseText, err := resourceStream(base.Resources)
	if err != nil {
		return nil, err
	}
	headText, err := resourceStream(head.Resources)
	if err != nil {
		return nil, err
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(baseText),
		B:        difflib.SplitLines(headText),
		FromFile: "base",
		ToFile:   "head",
		Context:  diffContext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute diff: %w", err)
	}

	return &DiffView{
		Chart:       ref,
		ReleaseName: name,
		Base:        base.Resources,
		Head:        head.Resources,
		Unified:     unified,
	}, nil
}

// resourceStream serializes resources as a multi-document YAML stream.
func resourceStream(resources []manifest.Resource) (string, error) {
	var buf bytes.Buffer
	for _, r := range resources {
		data, err := yaml.Marshal(r.Contents)
		if err != nil {
			return "", fmt.Errorf("failed to serialize %s/%s: %w", r.Kind, r.Name, err)
		}
		buf.WriteString("---\n")
		buf.Write(data)
	}
	return buf.String(), nil
}
