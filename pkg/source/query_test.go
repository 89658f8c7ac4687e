package source

import (
	"errors"
	"strings"
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		invalid bool
		problem string
	}{
		{name: "Empty", query: ""},
		{name: "Whitespace", query: "   "},
		{name: "SingleExact", query: "raw/events"},
		{name: "Subtree", query: "raw/*"},
		{name: "MatchAll", query: "*"},
		{name: "MultipleSelectors", query: "raw/events, marts/*"},
		{name: "EmptySelector", query: "raw/events,,marts", invalid: true, problem: "empty selector"},
		{name: "EmptySegment", query: "raw//events", invalid: true, problem: "empty segment"},
		{name: "StarMidPath", query: "raw/*/events", invalid: true, problem: "final segment"},
		{name: "StarInSegment", query: "raw/ev*nts", invalid: true, problem: "final segment"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseQuery(tc.query)
			if !tc.invalid {
				if err != nil {
					t.Fatalf("ParseQuery(%q) = %v, want nil", tc.query, err)
				}
				return
			}
			var qe *QueryError
			if !errors.As(err, &qe) {
				t.Fatalf("ParseQuery(%q) = %v, want *QueryError", tc.query, err)
			}
			if !strings.Contains(qe.Error(), tc.problem) {
				t.Errorf("error %q does not mention %q", qe.Error(), tc.problem)
			}
		})
	}
}

func TestParseQueryCollectsAllProblems(t *testing.T) {
	_, err := ParseQuery("a//b, ,c/*/d")
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("err = %v, want *QueryError", err)
	}
	if len(qe.Problems) != 3 {
		t.Errorf("Problems = %v, want one per bad selector", qe.Problems)
	}
}

func TestQueryMatches(t *testing.T) {
	tests := []struct {
		name  string
		query string
		token string
		want  bool
	}{
		{"EmptyMatchesAll", "", "anything/at/all", true},
		{"ExactHit", "raw/events", "raw/events", true},
		{"ExactMissesChild", "raw/events", "raw/events/daily", false},
		{"SubtreeRoot", "raw/*", "raw", true},
		{"SubtreeChild", "raw/*", "raw/events/daily", true},
		{"SubtreeNotPrefixString", "raw/*", "rawdata/events", false},
		{"StarMatchesAll", "*", "marts/daily", true},
		{"Disjunction", "raw/events, marts/*", "marts/daily", true},
		{"DisjunctionMiss", "raw/events, marts/*", "staging/daily", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := ParseQuery(tc.query)
			if err != nil {
				t.Fatal(err)
			}
			if got := q.Matches(tc.token); got != tc.want {
				t.Errorf("Matches(%q) = %v, want %v", tc.token, got, tc.want)
			}
		})
	}
}
