// Package featuremap loads feature maps from YAML or JSON files.
//
// A feature map is a single mapping from feature name to value:
//
//	fast: true
//	legacy: false
//	level: 2
//
// Values are kept as decoded; enablement is decided by labelprune.Enabled.
package featuremap

import (
	"fmt"
	"maps"
	"os"

	"go.yaml.in/yaml/v3"
)

// Load reads and parses the feature map file at path.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature map: %w", err)
	}

	features, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return features, nil
}

// Parse decodes a feature map document. An empty document yields an empty
// map.
func Parse(data []byte) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid feature map: %w", err)
	}

	features := map[string]any{}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return features, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return features, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: feature map must be a mapping", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: feature name must be a scalar", key.Line)
		}
		var v any
		if err := value.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: feature %q: %w", value.Line, key.Value, err)
		}
		features[key.Value] = v
	}

	return features, nil
}

// Merge returns a copy of base with every name in enable set to true and
// every name in disable set to false. Disabling wins over enabling.
func Merge(base map[string]any, enable, disable []string) map[string]any {
	features := maps.Clone(base)
	if features == nil {
		features = make(map[string]any, len(enable)+len(disable))
	}
	for _, name := range enable {
		features[name] = true
	}
	for _, name := range disable {
		features[name] = false
	}
	return features
}
