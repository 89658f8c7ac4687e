// Package explorer implements the interactive graph-exploration layer:
// selection, group expansion, viewport pan/zoom, and reconciliation of
// asynchronously computed layouts.
//
// # Architecture
//
// Five controllers compose into one [Explorer] per view:
//
//   - [Selection]: ordered selected tokens plus an explicit focus token
//   - [Expansion]: expanded groups, persisted per view scope, with a
//     one-shot focus-group hint
//   - [Viewport]: pan/zoom state, coordinate transforms, detail tiers
//   - [LayoutSync]: the priority chain deciding how a new layout moves
//     (or doesn't move) the viewport
//   - [Explorer]: input-event orchestration, layout lifecycle, and
//     viewport culling
//
// # Concurrency
//
// All state mutation is synchronous on the caller's event loop. Layout
// computation is the one asynchronous operation: [Explorer.Relayout]
// launches it, results arrive on [Explorer.Layouts], and the event loop
// feeds them back through [Explorer.ApplyLayout], which discards any
// result that doesn't answer the most recent request. While a request is
// outstanding the previous layout stays displayed.
package explorer
