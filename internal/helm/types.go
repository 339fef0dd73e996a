package helm

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// UnknownRepository replaces a repository entry without a usable name.
const UnknownRepository = "unknown"

// ChartSummary is one row of a repository search.
type ChartSummary struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version" json:"version"`
	AppVersion  string `yaml:"app_version" json:"appVersion"`
	Description string `yaml:"description" json:"description"`
}

// SortChartSummaries orders summaries by name; entries with the same name
// are ordered newest version first.
func SortChartSummaries(charts []ChartSummary) {
	sort.SliceStable(charts, func(i, j int) bool {
		if charts[i].Name != charts[j].Name {
			return charts[i].Name < charts[j].Name
		}
		return newerVersion(charts[i].Version, charts[j].Version)
	})
}

// newerVersion reports whether a sorts before b when listing newest first.
// Versions that are not semver compare as plain strings, after semver ones.
func newerVersion(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.GreaterThan(vb)
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a > b
	}
}
