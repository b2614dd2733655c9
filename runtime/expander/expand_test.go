package expander

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	type testCase struct {
		name   string
		value  interface{}
		source Source
		config map[string]interface{}
		expect interface{}
	}

	tests := []testCase{
		{
			name:   "literal without reference",
			value:  "no-template-here",
			source: MapSource{},
			expect: "no-template-here",
		},
		{
			name:   "config path",
			value:  "{{config.a.b}}",
			source: MapSource{},
			config: map[string]interface{}{"a": map[string]interface{}{"b": 5}},
			expect: 5,
		},
		{
			name:   "config path miss yields empty mapping",
			value:  "{{config.a.c}}",
			source: MapSource{},
			config: map[string]interface{}{"a": map[string]interface{}{"b": 5}},
			expect: map[string]interface{}{},
		},
		{
			name:   "bare config root",
			value:  "{{config}}",
			source: MapSource{},
			config: map[string]interface{}{"x": 1},
			expect: map[string]interface{}{"x": 1},
		},
		{
			name:  "step output field",
			value: "{{s1.output.leads}}",
			source: MapSource{
				"s1": {"leads": []interface{}{1, 2, 3}},
			},
			expect: []interface{}{1, 2, 3},
		},
		{
			name:  "second segment is ignored",
			value: "{{s1.anything.leads}}",
			source: MapSource{
				"s1": {"leads": []interface{}{1, 2, 3}},
			},
			expect: []interface{}{1, 2, 3},
		},
		{
			name:   "surrounding literal text is discarded",
			value:  "prefix {{config.x}} suffix",
			source: MapSource{},
			config: map[string]interface{}{"x": 9},
			expect: 9,
		},
		{
			name:   "step reference with two segments stays literal",
			value:  "{{s1.output}}",
			source: MapSource{"s1": {"leads": []interface{}{1}}},
			expect: "{{s1.output}}",
		},
		{
			name:   "unexecuted step yields empty mapping",
			value:  "{{pending.output.leads}}",
			source: MapSource{},
			expect: map[string]interface{}{},
		},
		{
			name:  "missing output key yields empty mapping",
			value: "{{s1.output.missing}}",
			source: MapSource{
				"s1": {"leads": []interface{}{1}},
			},
			expect: map[string]interface{}{},
		},
		{
			name:   "non-string scalar passes through",
			value:  42,
			source: MapSource{},
			expect: 42,
		},
		{
			name: "nested template",
			value: map[string]interface{}{
				"limit": 10,
				"icp":   "{{config.icp}}",
				"refs":  []interface{}{"{{s1.output.leads}}", "plain"},
			},
			source: MapSource{
				"s1": {"leads": []interface{}{"a"}},
			},
			config: map[string]interface{}{"icp": map[string]interface{}{"location": "USA"}},
			expect: map[string]interface{}{
				"limit": 10,
				"icp":   map[string]interface{}{"location": "USA"},
				"refs":  []interface{}{[]interface{}{"a"}, "plain"},
			},
		},
		{
			name:  "boolean reference keeps its type",
			value: "{{s1.output.dryRun}}",
			source: MapSource{
				"s1": {"dryRun": true},
			},
			expect: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := Resolve(tc.value, tc.source, tc.config)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(tc.expect, actual) {
				t.Errorf("expected %v, got %v", tc.expect, actual)
			}
		})
	}
}

// A resolved container is the stored value itself, not a copy.
func TestResolveSubstitutesByReference(t *testing.T) {
	leads := []interface{}{1, 2, 3}
	source := MapSource{"s1": {"leads": leads}}

	actual, err := Resolve("{{s1.output.leads}}", source, nil)
	if err != nil {
		t.Fatal(err)
	}
	resolved, ok := actual.([]interface{})
	if !ok {
		t.Fatalf("expected slice, got %T", actual)
	}
	if reflect.ValueOf(resolved).Pointer() != reflect.ValueOf(leads).Pointer() {
		t.Errorf("expected the stored slice to be substituted by reference")
	}
}

func TestResolveDoesNotMutateTemplate(t *testing.T) {
	template := map[string]interface{}{"v": "{{config.x}}"}
	if _, err := Resolve(template, MapSource{}, map[string]interface{}{"x": 1}); err != nil {
		t.Fatal(err)
	}
	if template["v"] != "{{config.x}}" {
		t.Errorf("template was mutated: %v", template)
	}
}
