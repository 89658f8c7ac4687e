// Package assetgraph provides the asset dependency graph model used by the
// explorer: structured node keys with stable string tokens, hierarchical
// group membership, and cycle detection.
//
// # Identity
//
// An asset is identified by a [Key] - an ordered list of path segments.
// The [Key.Token] serialization is the graph-wide identity used for edges,
// selection, and layout lookups. Tokens are deterministic: the same
// segments always produce the same token.
//
// # Groups
//
// Every node belongs to exactly one group (its GroupID, or the
// [GroupUngrouped] sentinel). The group → members projection returned by
// [Graph.Groups] is memoized per graph value and recomputed only when the
// graph is mutated.
//
// # External references
//
// Edges may point at tokens without a backing node. Those tokens are not
// an error - they are external references, listed by
// [Graph.ExternalTokens], rendered as placeholders, and excluded from
// keyboard navigation.
//
// # Validity
//
// The graph must be acyclic. [Graph.Validate] runs white/gray/black DFS
// and must pass before any layout or interaction; a cycle is a terminal
// error state for that render pass.
package assetgraph
