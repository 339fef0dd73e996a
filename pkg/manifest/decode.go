// Package manifest turns rendered chart output into an ordered list of
// resources that can be displayed without further interpretation.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/lucas-albers-lz4/helmad/pkg/chart"
)

// Document is one generic key-value manifest document.
type Document = map[string]interface{}

const operationTemplateOutput = "template output"

// Decode splits a "---" separated YAML stream into documents. Every document
// must be a mapping; an empty document or a scalar fails the whole stream,
// since a partial render means the chart or values are broken. A stream
// without documents decodes to an empty slice.
func Decode(stream []byte) ([]Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(stream))
	docs := make([]Document, 0)

	for i := 0; ; i++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &chart.YAMLParseError{Operation: operationTemplateOutput, Document: i, Err: err}
		}

		if err := requireMapping(&node); err != nil {
			return nil, &chart.YAMLParseError{Operation: operationTemplateOutput, Document: i, Err: err}
		}

		var raw interface{}
		if err := node.Decode(&raw); err != nil {
			return nil, &chart.YAMLParseError{Operation: operationTemplateOutput, Document: i, Err: err}
		}
		doc, ok := stringKeys(raw).(Document)
		if !ok {
			return nil, &chart.YAMLParseError{Operation: operationTemplateOutput, Document: i, Err: errors.New("document is not a mapping")}
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func requireMapping(node *yaml.Node) error {
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return errors.New("empty document")
	}
	root := node.Content[0]
	if root.Kind == yaml.AliasNode && root.Alias != nil {
		root = root.Alias
	}
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("document is a %s, not a mapping", nodeKindName(root))
	}
	return nil
}

func nodeKindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "null"
		}
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "node"
	}
}

// stringKeys rewrites every nested mapping to map[string]interface{}, so
// non-string keys such as "1: one" survive JSON and YAML encoding.
func stringKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case []interface{}:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}
