package manifest

import (
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Unknown replaces a kind or name that is missing or not a string.
const Unknown = "Unknown"

// Resource is one rendered manifest projected for display.
type Resource struct {
	Kind       string   `json:"kind"`
	Name       string   `json:"name"`
	Namespace  string   `json:"namespace,omitempty"`
	APIVersion string   `json:"apiVersion,omitempty"`
	Contents   Document `json:"contents"`
}

// Normalize projects documents into resources ordered by kind. Resources of
// the same kind keep their order in the stream. Missing or malformed fields
// never cause a failure.
func Normalize(docs []Document) []Resource {
	resources := make([]Resource, 0, len(docs))
	for _, doc := range docs {
		resources = append(resources, Resource{
			Kind:       stringField(doc, Unknown, "kind"),
			Name:       stringField(doc, Unknown, "metadata", "name"),
			Namespace:  stringField(doc, "", "metadata", "namespace"),
			APIVersion: stringField(doc, "", "apiVersion"),
			Contents:   doc,
		})
	}

	sort.SliceStable(resources, func(i, j int) bool {
		return resources[i].Kind < resources[j].Kind
	})
	return resources
}

func stringField(doc Document, fallback string, fields ...string) string {
	v, found, err := unstructured.NestedString(doc, fields...)
	if err != nil || !found {
		return fallback
	}
	return v
}

// CountByKind returns how many resources of each kind were rendered.
func CountByKind(resources []Resource) map[string]int {
	counts := make(map[string]int)
	for _, r := range resources {
		counts[r.Kind]++
	}
	return counts
}
