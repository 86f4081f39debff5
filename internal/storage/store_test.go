// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jeranaias/voxdraw/internal/diagram"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diagrams.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleDocument(t *testing.T) *diagram.Document {
	t.Helper()
	d := diagram.New()
	a, err := d.CreateNode(diagram.KindRectangle, 100, 100, "Login")
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	b, err := d.CreateNode(diagram.KindDiamond, 300, 100, "Valid")
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	if _, err := d.CreateConnector(a, diagram.PortRight, b, diagram.PortLeft, ""); err != nil {
		t.Fatalf("CreateConnector: %v", err)
	}
	return d.Export()
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	doc := sampleDocument(t)

	if err := store.Save("flow", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load("flow")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Nodes) != 2 {
		t.Errorf("loaded %d nodes, want 2", len(loaded.Nodes))
	}
	if len(loaded.Connectors) != 1 {
		t.Errorf("loaded %d connectors, want 1", len(loaded.Connectors))
	}
	if loaded.Nodes[0].Label != "Login" {
		t.Errorf("first node label = %q, want Login", loaded.Nodes[0].Label)
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	store := openTestStore(t)

	d := diagram.New()
	if _, err := d.CreateNode(diagram.KindRectangle, 0, 0, "One"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("flow", d.Export()); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	if _, err := d.CreateNode(diagram.KindRectangle, 100, 0, "Two"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("flow", d.Export()); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := store.Load("flow")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Nodes) != 2 {
		t.Errorf("loaded %d nodes, want 2", len(loaded.Nodes))
	}

	infos, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 {
		t.Errorf("List returned %d diagrams, want 1", len(infos))
	}
}

func TestLoadMissing(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load missing: err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)
	if err := store.Save("flow", sampleDocument(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete("flow"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load("flow"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete: err = %v, want ErrNotFound", err)
	}
	if err := store.Delete("flow"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: err = %v, want ErrNotFound", err)
	}
}

func TestRename(t *testing.T) {
	store := openTestStore(t)
	if err := store.Save("old", sampleDocument(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Rename("old", "new"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := store.Load("old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load old name: err = %v, want ErrNotFound", err)
	}
	if _, err := store.Load("new"); err != nil {
		t.Errorf("Load new name: %v", err)
	}
	if err := store.Rename("missing", "other"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Rename missing: err = %v, want ErrNotFound", err)
	}
}

func TestListOrderAndCounts(t *testing.T) {
	store := openTestStore(t)

	d := diagram.New()
	if _, err := d.CreateNode(diagram.KindRectangle, 0, 0, "A"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("first", d.Export()); err != nil {
		t.Fatal(err)
	}
	if _, err := d.CreateNode(diagram.KindRectangle, 100, 0, "B"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("second", d.Export()); err != nil {
		t.Fatal(err)
	}

	infos, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List returned %d diagrams, want 2", len(infos))
	}
	if infos[0].NodeCount != 2 {
		t.Errorf("most recent NodeCount = %d, want 2", infos[0].NodeCount)
	}
}

func TestInvalidName(t *testing.T) {
	store := openTestStore(t)
	if err := store.Save("   ", sampleDocument(t)); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Save blank name: err = %v, want ErrInvalidName", err)
	}
	if _, err := store.Load(""); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Load empty name: err = %v, want ErrInvalidName", err)
	}
}

func TestExists(t *testing.T) {
	store := openTestStore(t)
	ok, err := store.Exists("flow")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Exists before save should be false")
	}
	if err := store.Save("flow", sampleDocument(t)); err != nil {
		t.Fatal(err)
	}
	ok, err = store.Exists("flow")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("Exists after save should be true")
	}
}
