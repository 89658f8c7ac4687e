package assetgraph

import (
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{"Single", []string{"orders"}, "orders"},
		{"Nested", []string{"analytics", "daily", "orders"}, "analytics/daily/orders"},
		{"SlashInSegment", []string{"a/b", "c"}, `a\/b/c`},
		{"BackslashInSegment", []string{`a\b`}, `a\\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := MustKey(tt.segments...)
			if got := k.Token(); got != tt.want {
				t.Fatalf("Token = %q, want %q", got, tt.want)
			}

			parsed, err := ParseToken(k.Token())
			if err != nil {
				t.Fatalf("ParseToken: %v", err)
			}
			got := parsed.Segments()
			if len(got) != len(tt.segments) {
				t.Fatalf("segments = %v, want %v", got, tt.segments)
			}
			for i := range got {
				if got[i] != tt.segments[i] {
					t.Errorf("segment %d = %q, want %q", i, got[i], tt.segments[i])
				}
			}
		})
	}
}

func TestTokenDeterministic(t *testing.T) {
	a := MustKey("x", "y").Token()
	b := MustKey("x", "y").Token()
	if a != b {
		t.Errorf("tokens differ for identical keys: %q vs %q", a, b)
	}
}

func TestParseTokenEmpty(t *testing.T) {
	if _, err := ParseToken(""); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("ParseToken(\"\") = %v, want ErrEmptyKey", err)
	}
	if _, err := NewKey(); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("NewKey() = %v, want ErrEmptyKey", err)
	}
}

func TestLeaf(t *testing.T) {
	if got := MustKey("a", "b", "c").Leaf(); got != "c" {
		t.Errorf("Leaf = %q, want c", got)
	}
}
