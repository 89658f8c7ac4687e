package source

import (
	"fmt"
	"strings"
)

// QueryError reports a syntactically invalid query. It is distinct from a
// valid query that matches nothing: the latter yields an empty graph and
// no error.
type QueryError struct {
	Problems []string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query: %s", strings.Join(e.Problems, "; "))
}

// selector matches asset tokens: either an exact token or, with subtree
// set, the token itself plus everything beneath it.
type selector struct {
	prefix  string
	subtree bool
}

func (s selector) matches(token string) bool {
	if !s.subtree {
		return token == s.prefix
	}
	if s.prefix == "" {
		return true
	}
	return token == s.prefix || strings.HasPrefix(token, s.prefix+"/")
}

// Query is a parsed asset selection: a disjunction of selectors. The zero
// Query matches everything.
type Query struct {
	selectors []selector
}

// ParseQuery parses a comma-separated list of selectors. Each selector is
// a slash-separated asset path, optionally ending in "/*" to select the
// whole subtree; a bare "*" selects everything. An empty string matches
// everything. Syntax problems are collected across all selectors and
// returned as a single *QueryError.
func ParseQuery(raw string) (Query, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Query{}, nil
	}

	var q Query
	var problems []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		sel, err := parseSelector(part)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%q: %v", part, err))
			continue
		}
		q.selectors = append(q.selectors, sel)
	}
	if len(problems) > 0 {
		return Query{}, &QueryError{Problems: problems}
	}
	return q, nil
}

func parseSelector(part string) (selector, error) {
	if part == "" {
		return selector{}, fmt.Errorf("empty selector")
	}
	if part == "*" {
		return selector{subtree: true}, nil
	}

	segments := strings.Split(part, "/")
	subtree := false
	if segments[len(segments)-1] == "*" {
		subtree = true
		segments = segments[:len(segments)-1]
	}
	for i, seg := range segments {
		if seg == "" {
			return selector{}, fmt.Errorf("empty segment at position %d", i+1)
		}
		if strings.Contains(seg, "*") {
			return selector{}, fmt.Errorf("'*' is only allowed as the final segment")
		}
	}
	return selector{prefix: strings.Join(segments, "/"), subtree: subtree}, nil
}

// Matches reports whether a token is selected. A query with no selectors
// matches every token.
func (q Query) Matches(token string) bool {
	if len(q.selectors) == 0 {
		return true
	}
	for _, sel := range q.selectors {
		if sel.matches(token) {
			return true
		}
	}
	return false
}

// Empty reports whether the query selects everything.
func (q Query) Empty() bool { return len(q.selectors) == 0 }
