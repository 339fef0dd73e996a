// Package chart holds the chart-level values shared across helmad: chart
// references, values documents, Chart.yaml metadata and the error kinds
// every pipeline stage reports.
package chart

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	helmchart "helm.sh/helm/v3/pkg/chart"
	"sigs.k8s.io/yaml"

	log "github.com/lucas-albers-lz4/helmad/pkg/log"
)

// ChartfileName is the metadata file at the root of every chart.
const ChartfileName = "Chart.yaml"

// LoadMetadata reads <dir>/Chart.yaml. A chart without the file yields nil
// metadata and no error; a file that cannot be read or decoded is an error.
func LoadMetadata(fs afero.Fs, dir string) (*helmchart.Metadata, error) {
	path := filepath.Join(dir, ChartfileName)

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("Chart has no Chart.yaml", "dir", dir)
			return nil, nil
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	md := new(helmchart.Metadata)
	if err := yaml.Unmarshal(data, md); err != nil {
		return nil, &YAMLParseError{Operation: ChartfileName, Document: -1, Err: err}
	}

	log.Debug("Loaded chart metadata", "name", md.Name, "version", md.Version)
	return md, nil
}
