package explorer

import (
	"slices"

	"github.com/jruhland/assetscope/pkg/assetgraph"
)

// Selection tracks the ordered set of selected asset tokens plus the
// focus token - the anchor for keyboard navigation and range selection.
//
// Focus is a dedicated field rather than "last element of the sequence",
// so programmatic selection updates can't leave the anchor ambiguous.
// Tokens are unique; order is insertion order, with toggled-off entries
// removed in place.
type Selection struct {
	tokens []string
	focus  string
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Tokens returns the selected tokens in insertion order.
func (s *Selection) Tokens() []string { return slices.Clone(s.tokens) }

// Focus returns the focus token, or "" when nothing is selected.
func (s *Selection) Focus() string { return s.focus }

// Len returns the number of selected tokens.
func (s *Selection) Len() int { return len(s.tokens) }

// Contains reports whether token is selected.
func (s *Selection) Contains(token string) bool {
	return slices.Contains(s.tokens, token)
}

// SelectSingle replaces the selection with exactly [token].
func (s *Selection) SelectSingle(token string) {
	s.tokens = []string{token}
	s.focus = token
}

// Toggle removes the token if present, else appends it. Removing the
// focus token moves focus to the most recently added remaining token.
func (s *Selection) Toggle(token string) {
	if i := slices.Index(s.tokens, token); i >= 0 {
		s.tokens = slices.Delete(s.tokens, i, i+1)
		if s.focus == token {
			s.focus = ""
			if len(s.tokens) > 0 {
				s.focus = s.tokens[len(s.tokens)-1]
			}
		}
		return
	}
	s.tokens = append(s.tokens, token)
	s.focus = token
}

// Set replaces the selection programmatically, de-duplicating while
// preserving order. Focus moves to the last token.
func (s *Selection) Set(tokens []string) {
	s.tokens = s.tokens[:0]
	s.focus = ""
	for _, token := range tokens {
		if !s.Contains(token) {
			s.tokens = append(s.tokens, token)
			s.focus = token
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.tokens = nil
	s.focus = ""
}

// ExtendRange extends the selection with a connecting path of tokens from
// the current selection to target. Paths are searched from the focus
// token first, then from the remaining selected tokens most recent first,
// following edges forward and then in reverse. The first non-empty path
// wins; its tokens are appended in path order, existing entries kept in
// place. When no path exists, just the target is appended.
func (s *Selection) ExtendRange(target string, g *assetgraph.Graph) {
	for _, from := range s.rangeOrigins() {
		path := connectingPath(g, from, target)
		if path == nil {
			if reversed := connectingPath(g, target, from); reversed != nil {
				slices.Reverse(reversed)
				path = reversed
			}
		}
		if path == nil {
			continue
		}
		for _, token := range path {
			if !s.Contains(token) {
				s.tokens = append(s.tokens, token)
			}
		}
		s.focus = target
		return
	}

	// No connecting path from any selected token.
	if !s.Contains(target) {
		s.tokens = append(s.tokens, target)
	}
	s.focus = target
}

// rangeOrigins returns candidate path starts: focus first, then the rest
// of the selection most recently selected first.
func (s *Selection) rangeOrigins() []string {
	origins := make([]string, 0, len(s.tokens))
	if s.focus != "" {
		origins = append(origins, s.focus)
	}
	for i := len(s.tokens) - 1; i >= 0; i-- {
		if s.tokens[i] != s.focus {
			origins = append(origins, s.tokens[i])
		}
	}
	return origins
}

// connectingPath returns the shortest forward path from→to as a token
// sequence including both endpoints, or nil if none exists.
func connectingPath(g *assetgraph.Graph, from, to string) []string {
	if from == to {
		return []string{from}
	}
	parent := map[string]string{from: from}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.Children(cur) {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			if next == to {
				var path []string
				for at := to; at != from; at = parent[at] {
					path = append(path, at)
				}
				path = append(path, from)
				slices.Reverse(path)
				return path
			}
			queue = append(queue, next)
		}
	}
	return nil
}
