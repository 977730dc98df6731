package router

import (
	"reflect"
	"testing"
)

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		pattern string
		want    []segment
	}{
		{"/", []segment{}},
		{"/general", []segment{{literal: "general"}}},
		{"/general/tab/:activeTabIndex", []segment{{literal: "general"}, {literal: "tab"}, {param: "activeTabIndex"}}},
		{"/files/:name?", []segment{{literal: "files"}, {param: "name", optional: true}}},
		{"/docs/:section/:page?", []segment{{literal: "docs"}, {param: "section"}, {param: "page", optional: true}}},
	}
	for _, tt := range tests {
		got := compilePattern(tt.pattern)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("compilePattern(%q) = %+v, want %+v", tt.pattern, got, tt.want)
		}
		// Every parameter segment agrees with the validator's parser.
		for _, seg := range got {
			if !seg.isParam() {
				continue
			}
			raw := ":" + seg.param
			if seg.optional {
				raw += "?"
			}
			name, optional, ok := parseParamSegment(raw)
			if !ok || name != seg.param || optional != seg.optional {
				t.Errorf("parseParamSegment(%q) = %q, %v, %v; compiled as %+v", raw, name, optional, ok, seg)
			}
		}
	}
}
