// ABOUTME: Tests for persisted token storage
// ABOUTME: Verifies save/load round trips, partial updates, and clearing

package tokens

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_LoadMissing(t *testing.T) {
	s := New(t.TempDir())

	p, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Access != "" || p.Refresh != "" {
		t.Errorf("expected empty pair, got %+v", p)
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Save(Pair{Access: "acc", Refresh: "ref"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	p, err := s.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if p.Access != "acc" || p.Refresh != "ref" {
		t.Errorf("expected saved pair, got %+v", p)
	}
}

func TestStore_SetAccessKeepsRefresh(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Save(Pair{Access: "old", Refresh: "ref"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SetAccess("new"); err != nil {
		t.Fatalf("set access failed: %v", err)
	}

	p, _ := s.Load()
	if p.Access != "new" {
		t.Errorf("expected access 'new', got %s", p.Access)
	}
	if p.Refresh != "ref" {
		t.Errorf("expected refresh kept, got %s", p.Refresh)
	}
}

func TestStore_Clear(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Save(Pair{Access: "acc", Refresh: "ref"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	p, _ := s.Load()
	if p.Access != "" || p.Refresh != "" {
		t.Errorf("expected empty pair after clear, got %+v", p)
	}

	// Clearing again must not fail
	if err := s.Clear(); err != nil {
		t.Errorf("second clear failed: %v", err)
	}
}

func TestStore_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := s.Save(Pair{Access: "acc", Refresh: "ref"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "tokens.json"))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 perms, got %o", info.Mode().Perm())
	}
}

func TestStore_CorruptFileTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := os.WriteFile(filepath.Join(dir, "tokens.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	p, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Access != "" || p.Refresh != "" {
		t.Errorf("expected empty pair for corrupt file, got %+v", p)
	}
}
