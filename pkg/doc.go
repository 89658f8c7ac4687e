// Package pkg provides the core libraries for assetscope graph exploration.
//
// # Overview
//
// Assetscope loads asset dependency graphs and makes them explorable:
// selection, group expansion, pan/zoom with detail tiers, and asynchronous
// layout reconciliation. The pkg directory is organized as:
//
//  1. [assetgraph] - the graph model (keys, nodes, groups, validation)
//  2. [explorer] - the interaction layer (selection, expansion, viewport, layout sync)
//  3. [layout] - layered layout engine with signature-keyed caching
//  4. [source] - graph providers (JSON file, MongoDB) and query filtering
//  5. [store] - persisted view state (file, memory, redis backends)
//  6. [render/dot] - Graphviz DOT and SVG rendering
//
// # Architecture
//
// The typical data flow through assetscope:
//
//	Graph source (file / MongoDB)
//	         ↓
//	[assetgraph] package (model + cycle validation)
//	         ↓
//	[explorer] package (selection, expansion, viewport)
//	         ↓
//	[layout] package (async layered layout, signature-guarded)
//	         ↓
//	TUI view / HTTP API / SVG output
//
// # Quick Start
//
// Load a graph and explore it:
//
//	import (
//	    "context"
//	    "github.com/jruhland/assetscope/pkg/explorer"
//	    "github.com/jruhland/assetscope/pkg/source"
//	    "github.com/jruhland/assetscope/pkg/store"
//	)
//
//	// 1. Load and filter the graph
//	provider := source.NewFile("graph.json", nil)
//	g, _ := provider.Fetch(context.Background(), "raw/*")
//
//	// 2. Create an explorer view
//	e := explorer.New(context.Background(), g, explorer.Options{
//	    Scope: "my-view",
//	    Store: store.NewMemory(),
//	})
//
//	// 3. Drive it from an event loop
//	e.Relayout(ctx)
//	res := <-e.Layouts()
//	e.ApplyLayout(res)
//
// # Main Packages
//
// [assetgraph] - Token-indexed directed graph of assets with groups.
// Edges may reference tokens with no backing node; those are external
// references and render as placeholders. Validation rejects cycles using
// depth-first search before any rendering.
//
// [explorer] - The controllers behind an interactive view: ordered
// selection with path-based range extension, persisted group expansion
// with a one-shot focus hint, viewport pan/zoom with scale-driven detail
// tiers, and the priority chain that reconciles newly computed layouts
// with the user's current state.
//
// [layout] - A layered (longest-path) engine producing node, group, and
// edge geometry, plus a caching wrapper keyed by layout signature
// (graph + expansion + options hash).
//
// [source] - Providers loading graphs from JSON files or MongoDB
// collections, with a comma-separated selector query language. Invalid
// queries are classified separately from queries that match nothing.
//
// [store] - Byte-oriented key/value state with TTLs: file-backed (hash
// sharded), in-memory, and redis implementations. View state (expanded
// groups) and cached layouts both live here.
//
// [render/dot] - DOT generation honoring expansion state (clusters for
// expanded groups, single boxes for collapsed ones) and SVG rendering
// through Graphviz.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/explorer/...   # Specific package
//
// [assetgraph]: https://pkg.go.dev/github.com/jruhland/assetscope/pkg/assetgraph
// [explorer]: https://pkg.go.dev/github.com/jruhland/assetscope/pkg/explorer
// [layout]: https://pkg.go.dev/github.com/jruhland/assetscope/pkg/layout
// [source]: https://pkg.go.dev/github.com/jruhland/assetscope/pkg/source
// [store]: https://pkg.go.dev/github.com/jruhland/assetscope/pkg/store
// [render/dot]: https://pkg.go.dev/github.com/jruhland/assetscope/pkg/render/dot
package pkg
