// Package view provides lazy view loaders backed by chunk storage.
//
// A chunk is a named unit of view code fetched on first navigation, the way a
// bundler splits a single-page app into lazily imported chunks. Chunks are
// html/template sources; TemplateLoader turns one into a router.ViewLoader:
//
//	src := view.NewFSSource(os.DirFS("chunks"))
//	layers := view.TemplateLoader(src, "layers")
//
//	routes := []*router.RouteNode{
//	    {Path: "/general", Name: "GeneralServices", Loader: layers},
//	}
//
// Chunks can also live in S3 (NewS3Source). Loaders refetch on every call;
// wrap the registry with Cache.Middleware to keep resolved views around.
package view
