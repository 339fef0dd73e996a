package chart

import (
	"helm.sh/helm/v3/pkg/chartutil"
)

// ParseValues reads a user supplied values document. Empty text is an empty
// document; anything that is not a mapping is a YAMLParseError. Keys are not
// checked against the chart, the tool ignores unknown ones.
func ParseValues(text string) (chartutil.Values, error) {
	vals, err := chartutil.ReadValues([]byte(text))
	if err != nil {
		return nil, &YAMLParseError{Operation: "values document", Document: -1, Err: err}
	}
	return vals, nil
}

// SerializeValues renders values in the canonical form written to the
// temporary values file for a render call.
func SerializeValues(vals chartutil.Values) ([]byte, error) {
	if vals == nil {
		vals = chartutil.Values{}
	}
	out, err := vals.YAML()
	if err != nil {
		return nil, &YAMLParseError{Operation: "values document", Document: -1, Err: err}
	}
	return []byte(out), nil
}
