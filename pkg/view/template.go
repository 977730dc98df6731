package view

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/vdom"
)

// TemplateData is the value a chunk template executes against.
type TemplateData struct {
	// Chunk is the chunk name.
	Chunk string

	// Params are the route parameters, e.g. {{ .Params.Get "activeTabIndex" }}.
	Params router.Params
}

// TemplateView renders a parsed chunk.
type TemplateView struct {
	chunk string
	tmpl  *template.Template
}

// Chunk returns the chunk the view was loaded from.
func (v *TemplateView) Chunk() string {
	return v.chunk
}

// Render implements router.View. Execution errors render an inline error
// block in place of the view.
func (v *TemplateView) Render(params router.Params) *vdom.VNode {
	var buf bytes.Buffer
	if params == nil {
		params = router.Params{}
	}
	if err := v.tmpl.Execute(&buf, TemplateData{Chunk: v.chunk, Params: params}); err != nil {
		return vdom.Div(vdom.Class("view-error"), vdom.Data("chunk", v.chunk),
			vdom.Textf("render %s: %v", v.chunk, err))
	}
	return vdom.Raw(buf.String())
}

// ParseTemplate compiles chunk source into a view.
func ParseTemplate(chunk string, src []byte) (*TemplateView, error) {
	tmpl, err := template.New(chunk).Option("missingkey=zero").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parse chunk %s: %w", chunk, err)
	}
	return &TemplateView{chunk: chunk, tmpl: tmpl}, nil
}

// TemplateLoader returns a loader that fetches chunk from src and parses it
// on every invocation.
func TemplateLoader(src Source, chunk string) router.ViewLoader {
	return func(ctx context.Context) (router.View, error) {
		data, err := src.Fetch(ctx, chunk)
		if err != nil {
			return nil, err
		}
		return ParseTemplate(chunk, data)
	}
}
