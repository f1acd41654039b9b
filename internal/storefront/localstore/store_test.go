package localstore

import (
	"os"
	"path/filepath"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Save("cart", record{Name: "tee", Count: 2}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var got record
	ok, err := store.Load("cart", &got)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected record to be found")
	}
	if got.Name != "tee" || got.Count != 2 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestStoreLoadAbsent(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	var got record
	ok, err := store.Load("missing", &got)
	if err != nil {
		t.Fatalf("load absent: %v", err)
	}
	if ok {
		t.Fatalf("expected absent record")
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	path := filepath.Join(dir, "cart.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	var got record
	ok, err := store.Load("cart", &got)
	if err != nil {
		t.Fatalf("load corrupt: %v", err)
	}
	if ok {
		t.Fatalf("corrupt record should read as absent")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("corrupt file should have been removed")
	}
}

func TestStoreDeleteAndExists(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if store.Exists("cart") {
		t.Fatalf("unexpected record before save")
	}
	if err := store.Save("cart", record{Name: "tee"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !store.Exists("cart") {
		t.Fatalf("expected record after save")
	}
	if err := store.Delete("cart"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Exists("cart") {
		t.Fatalf("record should be gone after delete")
	}
	if err := store.Delete("cart"); err != nil {
		t.Fatalf("deleting absent record should be a no-op, got %v", err)
	}
}
