package infer

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAMLBytes decodes a YAML document into the same value tree as
// ParseDocumentBytes. Non-string mapping keys are converted to strings.
func ParseYAMLBytes(b []byte) (map[string]any, error) {
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	obj, ok := normalizeYAML(v).(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, w := range x {
			x[k] = normalizeYAML(w)
		}
		return x
	case map[any]any:
		res := make(map[string]any, len(x))
		for k, w := range x {
			res[fmt.Sprint(k)] = normalizeYAML(w)
		}
		return res
	case []any:
		for i, w := range x {
			x[i] = normalizeYAML(w)
		}
		return x
	}
	return v
}
