// Package app holds the built-in route table, its view chunks and the
// application shell that frames every page.
package app

import (
	"embed"
	"io/fs"

	"github.com/vango-dev/routetable/internal/manifest"
	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/view"
)

//go:embed chunks/*.html
var chunkFiles embed.FS

//go:embed routes.yaml
var defaultManifest []byte

// LayersChunk is the chunk shared by both General leaves.
const LayersChunk = "layers"

// ShellLayout is the manifest name of the shell layout.
const ShellLayout = "shell"

// Chunks returns the embedded view chunks.
func Chunks() fs.FS {
	sub, err := fs.Sub(chunkFiles, "chunks")
	if err != nil {
		panic(err)
	}
	return sub
}

// DefaultManifest returns the YAML form of GeneralRoutes.
func DefaultManifest() []byte {
	return defaultManifest
}

// GeneralRoutes is the built-in table: a "General" section rendered inside
// layout, with two exact leaves that both load the layers chunk.
func GeneralRoutes(src view.Source, layout router.LayoutHandler) []*router.RouteNode {
	return []*router.RouteNode{
		{
			Path:   "",
			Name:   "General",
			Meta:   router.Meta{Title: "general", Icon: "chart", HasGroup: false, Exact: true},
			Layout: layout,
			Children: []*router.RouteNode{
				{
					Path:   "/general",
					Name:   "GeneralServices",
					Meta:   router.Meta{Exact: true},
					Loader: view.TemplateLoader(src, LayersChunk),
				},
				{
					Path:   "/general/tab/:activeTabIndex",
					Name:   "GeneralServicesActiveTabIndex",
					Meta:   router.Meta{Exact: true},
					Loader: view.TemplateLoader(src, LayersChunk),
				},
			},
		},
	}
}

// Binder binds manifest names to chunk loaders over src and to the shell.
func Binder(src view.Source, shell *Shell) manifest.Binder {
	return manifest.Binder{
		Loader: func(chunk string) router.ViewLoader {
			return view.TemplateLoader(src, chunk)
		},
		Layouts: map[string]router.LayoutHandler{
			ShellLayout: shell.Layout,
		},
	}
}
