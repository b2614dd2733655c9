package expander

import (
	"github.com/viant/structology/visitor"
)

// configToken selects the workflow's static configuration as the reference
// root instead of a step output.
const configToken = "config"

// Source provides read access to previously recorded step outputs.
type Source interface {
	Output(stepID string) (map[string]interface{}, bool)
}

// MapSource adapts a plain map to Source.
type MapSource map[string]map[string]interface{}

func (m MapSource) Output(stepID string) (map[string]interface{}, bool) {
	output, ok := m[stepID]
	return output, ok
}

// Resolve recursively materializes reference expressions within a step input
// template against recorded step outputs and the workflow's static
// configuration. Maps and slices are rebuilt with each element resolved;
// strings are matched for the first {{<path>}} token; all other scalars pass
// through unchanged. Resolution is pure: it never mutates its arguments and
// substitutes container values by reference, without copying or coercion.
func Resolve(value interface{}, source Source, config map[string]interface{}) (interface{}, error) {
	switch actual := value.(type) {
	case map[string]interface{}:
		resolved := make(map[string]interface{}, len(actual))
		visit := visitor.MapVisitorOf[string, interface{}](actual)
		err := visit(func(key string, element interface{}) (bool, error) {
			expanded, err := Resolve(element, source, config)
			if err != nil {
				return false, err
			}
			resolved[key] = expanded
			return true, nil
		})
		return resolved, err
	case []interface{}:
		resolved := make([]interface{}, len(actual))
		for i, item := range actual {
			expanded, err := Resolve(item, source, config)
			if err != nil {
				return nil, err
			}
			resolved[i] = expanded
		}
		return resolved, nil
	case string:
		return resolveScalar(actual, source, config), nil
	default:
		return actual, nil
	}
}

// resolveScalar resolves a single string value. A resolved reference replaces
// the entire scalar - literal text surrounding the {{...}} token is discarded,
// matching the behavior existing workflow documents rely on.
func resolveScalar(value string, source Source, config map[string]interface{}) interface{} {
	ref, ok := ParseReference(value)
	if !ok {
		return value
	}
	if ref.Path[0] == configToken {
		return walkConfig(config, ref.Path[1:])
	}
	// A step reference needs at least <step>.<section>.<field>; the second
	// segment (conventionally "output") is ignored.
	if len(ref.Path) < 3 {
		return value
	}
	output, ok := source.Output(ref.Path[0])
	if !ok {
		return map[string]interface{}{}
	}
	return walkOutput(output, ref.Path[2:])
}

// walkConfig navigates static configuration; a missing key at any level
// yields an empty mapping rather than an error.
func walkConfig(config map[string]interface{}, segments []string) interface{} {
	var current interface{} = config
	for _, segment := range segments {
		node, ok := current.(map[string]interface{})
		if !ok {
			return map[string]interface{}{}
		}
		value, found := node[segment]
		if !found {
			return map[string]interface{}{}
		}
		current = value
	}
	return current
}

// walkOutput navigates a recorded step output. Missing keys substitute an
// empty mapping and navigation continues; non-mapping intermediates are kept
// as-is while remaining segments are skipped.
func walkOutput(output map[string]interface{}, segments []string) interface{} {
	var current interface{} = output
	for _, segment := range segments {
		node, ok := current.(map[string]interface{})
		if !ok {
			continue
		}
		value, found := node[segment]
		if !found {
			current = map[string]interface{}{}
			continue
		}
		current = value
	}
	return current
}
