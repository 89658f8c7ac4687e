package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	defer s.Close()

	if _, hit, err := s.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit=%v err=%v, want miss", hit, err)
	}

	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := s.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get(k) = %q hit=%v err=%v, want v", data, hit, err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := s.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	defer s.Close()

	if err := s.Set(ctx, "k", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := s.Get(ctx, "k")
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q hit=%v err=%v, want payload", data, hit, err)
	}

	// Deleting twice is fine.
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestFileStoreCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	if err := s.Set(ctx, "k", []byte("x"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Corrupt the entry on disk; Get must report a miss, not an error.
	sum := Hash([]byte("k"))
	path := filepath.Join(dir, sum[:2], sum[2:]+".json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := s.Get(ctx, "k"); err != nil || hit {
		t.Errorf("Get(corrupt) = hit=%v err=%v, want silent miss", hit, err)
	}
}

func TestViewKey(t *testing.T) {
	a := ViewKey{View: "explorer", Scope: "team/a", Field: "expanded-groups"}
	b := ViewKey{View: "explorer", Scope: "team/a", Field: "expanded-groups"}
	c := ViewKey{View: "explorer", Scope: "team/b", Field: "expanded-groups"}

	if a.Key() != b.Key() {
		t.Error("identical view keys should produce identical store keys")
	}
	if a.Key() == c.Key() {
		t.Error("different scopes must not collide")
	}

	// The struct form must not be collapsible into colliding strings the
	// way naive concatenation is.
	d := ViewKey{View: "explorer", Scope: "team", Field: "a:expanded-groups"}
	if a.Key() == d.Key() {
		t.Error("field/scope boundary must be preserved")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}
