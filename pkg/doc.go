// Package pkg provides the core libraries for Snapgraph snapshot-history
// visualization.
//
// # Overview
//
// Snapgraph turns a document's version history into the graph a sidebar UI
// draws: one dot per snapshot, one lane per timeline, connectors tracing
// ancestry across forks and restores. The pkg directory is organized into
// three main areas:
//
//  1. Domain - snapshot types, layout engine, history store
//  2. Rendering - SVG/DOT sinks, themes, format conversion
//  3. Infrastructure - caching, pipeline orchestration, HTTP API
//
// # Architecture
//
// The typical data flow through Snapgraph:
//
//	Workspace file (history.json)
//	         ↓
//	    [history] package (snapshots, timelines, feed)
//	         ↓
//	    [snapshot] package (dedup, alias detection)
//	         ↓
//	    [layout] package (lanes, order, rows, connectors)
//	         ↓
//	    [render] package (SVG/DOT/PNG/PDF output)
//
// # Quick Start
//
// Load a workspace and render its history graph:
//
//	import (
//	    "github.com/lanewise/snapgraph/pkg/history"
//	    "github.com/lanewise/snapgraph/pkg/layout"
//	    "github.com/lanewise/snapgraph/pkg/render/svg"
//	)
//
//	// 1. Open the workspace
//	store, _ := history.Open("history.json")
//
//	// 2. Compute the layout
//	res, _ := layout.Build(store.Feed())
//
//	// 3. Render to SVG
//	out := svg.Render(res)
//
// # Main Packages
//
// [snapshot] - Domain types for the graph feed (nodes, edges, view state)
// and raw-node deduplication. Aliased snapshots (one save reachable from
// several timelines) collapse to a single node here.
//
// [layout] - The layout engine: lane assignment, display ordering, row and
// connector geometry. Pure and deterministic; [layout.Build] is the single
// entry point and an LRU memo makes repeated builds cheap.
//
// [history] - File-backed workspace store. Append-only snapshot records,
// named timelines, commit/restore/preview/activate/fork operations, and the
// feed the layout engine consumes.
//
// [render/svg] - Direct SVG rendering of a computed layout.
//
// [render/dot] - Graphviz DOT export and in-process rasterization for
// structural inspection of the snapshot graph.
//
// [render/styles] - Themes: lane palette, geometry metrics, TOML loading.
//
// [cache] - Content-addressed result caching with file, null, and Redis
// backends.
//
// [pipeline] - The cached load → layout → render pipeline shared by the
// CLI and the HTTP server, so every entry point behaves the same.
//
// [server] - HTTP API serving layouts, rendered graphs, and activation to
// a UI layer.
//
// [errors] - Structured error codes shared across the module.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [snapshot]: https://pkg.go.dev/github.com/lanewise/snapgraph/pkg/snapshot
// [layout]: https://pkg.go.dev/github.com/lanewise/snapgraph/pkg/layout
// [history]: https://pkg.go.dev/github.com/lanewise/snapgraph/pkg/history
// [render]: https://pkg.go.dev/github.com/lanewise/snapgraph/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/lanewise/snapgraph/pkg/render/svg
// [render/dot]: https://pkg.go.dev/github.com/lanewise/snapgraph/pkg/render/dot
// [render/styles]: https://pkg.go.dev/github.com/lanewise/snapgraph/pkg/render/styles
// [cache]: https://pkg.go.dev/github.com/lanewise/snapgraph/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/lanewise/snapgraph/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/lanewise/snapgraph/pkg/server
// [errors]: https://pkg.go.dev/github.com/lanewise/snapgraph/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/lanewise/snapgraph/pkg/buildinfo
package pkg
