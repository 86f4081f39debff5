// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diagram

import (
	"testing"
)

// =============================================================================
// NODE LIFECYCLE
// =============================================================================

func TestCreateNodeDefaults(t *testing.T) {
	d := New()
	id, err := d.CreateNode(KindRectangle, 10, 20, "Start")
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}

	n := d.Node(id)
	if n == nil {
		t.Fatal("created node not found")
	}
	if n.Width != DefaultWidth || n.Height != DefaultHeight {
		t.Errorf("default size = %gx%g, want %gx%g", n.Width, n.Height, DefaultWidth, DefaultHeight)
	}
	if n.Style.Opacity != 1.0 {
		t.Errorf("default opacity = %g, want 1", n.Style.Opacity)
	}
	if n.Table != nil {
		t.Error("non-table node should have no table data")
	}
}

func TestCreateNodeInvalidKind(t *testing.T) {
	d := New()
	if _, err := d.CreateNode(Kind("blob"), 0, 0, "x"); err == nil {
		t.Fatal("expected error for invalid kind")
	}
	if d.NodeCount() != 0 {
		t.Error("failed create should not add a node")
	}
}

func TestTableNodeSeeded(t *testing.T) {
	d := New()
	id, _ := d.CreateNode(KindTable, 0, 0, "Orders")
	n := d.Node(id)
	if n.Table == nil {
		t.Fatal("table node missing table data")
	}
	if len(n.Table.Columns) != 2 || len(n.Table.Rows) != 3 {
		t.Errorf("seed = %d cols, %d rows; want 2 cols, 3 rows", len(n.Table.Columns), len(n.Table.Rows))
	}
}

func TestDeleteNodesCascadesConnectors(t *testing.T) {
	d := New()
	a, _ := d.CreateNode(KindRectangle, 0, 0, "A")
	b, _ := d.CreateNode(KindRectangle, 300, 0, "B")
	c, _ := d.CreateNode(KindRectangle, 600, 0, "C")
	if _, err := d.CreateConnector(a, PortRight, b, PortLeft, ""); err != nil {
		t.Fatalf("CreateConnector: %v", err)
	}
	if _, err := d.CreateConnector(b, PortRight, c, PortLeft, ""); err != nil {
		t.Fatalf("CreateConnector: %v", err)
	}

	if err := d.DeleteNodes([]string{b}); err != nil {
		t.Fatalf("DeleteNodes: %v", err)
	}
	if d.NodeCount() != 2 {
		t.Errorf("node count = %d, want 2", d.NodeCount())
	}
	if got := len(d.Connectors()); got != 0 {
		t.Errorf("connectors after cascade = %d, want 0", got)
	}
}

func TestCreateConnectorRejectsMissingEndpoint(t *testing.T) {
	d := New()
	a, _ := d.CreateNode(KindRectangle, 0, 0, "A")
	if _, err := d.CreateConnector(a, PortRight, "node-nope", PortLeft, ""); err == nil {
		t.Fatal("expected error for dangling endpoint")
	}
}

// =============================================================================
// TABLE OPERATIONS
// =============================================================================

func TestTableMutations(t *testing.T) {
	d := New()
	id, _ := d.CreateNode(KindTable, 0, 0, "Orders")

	rowID, err := d.AddTableRow(id)
	if err != nil {
		t.Fatalf("AddTableRow: %v", err)
	}
	colID, err := d.AddTableColumn(id, "Price")
	if err != nil {
		t.Fatalf("AddTableColumn: %v", err)
	}
	if err := d.UpdateTableCell(id, rowID, colID, "9.99"); err != nil {
		t.Fatalf("UpdateTableCell: %v", err)
	}

	n := d.Node(id)
	if got := n.Table.Rows[len(n.Table.Rows)-1].Cells[colID]; got != "9.99" {
		t.Errorf("cell = %q, want \"9.99\"", got)
	}

	if err := d.UpdateTableCell(id, "row-nope", colID, "x"); err == nil {
		t.Error("expected error for unknown row")
	}
}

func TestTableOpsRejectNonTable(t *testing.T) {
	d := New()
	id, _ := d.CreateNode(KindRectangle, 0, 0, "Box")
	if _, err := d.AddTableRow(id); err == nil {
		t.Fatal("expected ErrNotTable")
	}
}

// =============================================================================
// SELECTION AND DUPLICATION
// =============================================================================

func TestSelectionAdditive(t *testing.T) {
	d := New()
	a, _ := d.CreateNode(KindRectangle, 0, 0, "A")
	b, _ := d.CreateNode(KindRectangle, 0, 0, "B")

	d.SelectNodes([]string{a}, false)
	d.SelectNodes([]string{b}, true)
	if got := len(d.Selection()); got != 2 {
		t.Errorf("additive selection = %d ids, want 2", got)
	}

	d.SelectNodes([]string{a}, false)
	if got := d.Selection(); len(got) != 1 || got[0] != a {
		t.Errorf("replacing selection = %v, want [%s]", got, a)
	}

	d.ClearSelection()
	if len(d.Selection()) != 0 {
		t.Error("selection not cleared")
	}
}

func TestDuplicateSelection(t *testing.T) {
	d := New()
	a, _ := d.CreateNode(KindRectangle, 100, 100, "A")
	b, _ := d.CreateNode(KindRectangle, 400, 100, "B")
	if _, err := d.CreateConnector(a, PortRight, b, PortLeft, "edge"); err != nil {
		t.Fatalf("CreateConnector: %v", err)
	}

	d.SelectNodes([]string{a, b}, false)
	newIDs, err := d.DuplicateSelection()
	if err != nil {
		t.Fatalf("DuplicateSelection: %v", err)
	}
	if len(newIDs) != 2 {
		t.Fatalf("duplicated %d nodes, want 2", len(newIDs))
	}
	if d.NodeCount() != 4 {
		t.Errorf("node count = %d, want 4", d.NodeCount())
	}
	// The connector between the pair is cloned too.
	if got := len(d.Connectors()); got != 2 {
		t.Errorf("connector count = %d, want 2", got)
	}

	dup := d.Node(newIDs[0])
	if dup.X != 100+DuplicateOffset || dup.Y != 100+DuplicateOffset {
		t.Errorf("duplicate at (%g,%g), want offset by %g", dup.X, dup.Y, DuplicateOffset)
	}
	// Duplicates become the new selection.
	sel := d.Selection()
	if len(sel) != 2 || sel[0] != newIDs[0] {
		t.Errorf("selection after duplicate = %v, want %v", sel, newIDs)
	}
}

func TestDuplicateNothingSelected(t *testing.T) {
	d := New()
	if _, err := d.DuplicateSelection(); err == nil {
		t.Fatal("expected error with empty selection")
	}
}

// =============================================================================
// UNDO / REDO
// =============================================================================

func TestUndoRedoRoundTrip(t *testing.T) {
	d := New()
	id, _ := d.CreateNode(KindRectangle, 50, 60, "A")
	if err := d.MoveNode(id, 500, 600); err != nil {
		t.Fatalf("MoveNode: %v", err)
	}

	if err := d.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if n := d.Node(id); n.X != 50 || n.Y != 60 {
		t.Errorf("after undo node at (%g,%g), want (50,60)", n.X, n.Y)
	}

	if err := d.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if n := d.Node(id); n.X != 500 || n.Y != 600 {
		t.Errorf("after redo node at (%g,%g), want (500,600)", n.X, n.Y)
	}
}

func TestUndoEmptyStack(t *testing.T) {
	d := New()
	if err := d.Undo(); err == nil {
		t.Fatal("expected ErrNothingToUndo")
	}
	if err := d.Redo(); err == nil {
		t.Fatal("expected ErrNothingToRedo")
	}
}

func TestMutationInvalidatesRedo(t *testing.T) {
	d := New()
	id, _ := d.CreateNode(KindRectangle, 0, 0, "A")
	_ = d.MoveNode(id, 100, 0)
	_ = d.Undo()
	_ = d.MoveNode(id, 0, 100) // new edit forks history
	if err := d.Redo(); err == nil {
		t.Fatal("redo should be invalidated by a fresh mutation")
	}
}

func TestUndoSnapshotsAreDeep(t *testing.T) {
	d := New()
	id, _ := d.CreateNode(KindTable, 0, 0, "Orders")
	rowID, _ := d.AddTableRow(id)
	colID := d.Node(id).Table.Columns[0].ID
	_ = d.UpdateTableCell(id, rowID, colID, "first")
	_ = d.UpdateTableCell(id, rowID, colID, "second")

	_ = d.Undo()
	if got := d.Node(id).Table.rowByID(rowID).Cells[colID]; got != "first" {
		t.Errorf("cell after undo = %q, want \"first\"", got)
	}
}

// =============================================================================
// DOCUMENT EXPORT / IMPORT
// =============================================================================

func TestDocumentRoundTrip(t *testing.T) {
	d := New()
	a, _ := d.CreateNode(KindRectangle, 0, 0, "A")
	b, _ := d.CreateNode(KindDiamond, 300, 0, "B")
	if _, err := d.CreateConnector(a, PortRight, b, PortLeft, "yes"); err != nil {
		t.Fatalf("CreateConnector: %v", err)
	}

	data, err := d.Export().Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	doc, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("UnmarshalDocument: %v", err)
	}

	fresh := New()
	if err := fresh.Import(doc); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if fresh.NodeCount() != 2 || len(fresh.Connectors()) != 1 {
		t.Errorf("imported %d nodes, %d connectors; want 2, 1", fresh.NodeCount(), len(fresh.Connectors()))
	}
}

func TestImportRejectsDanglingConnector(t *testing.T) {
	doc := &Document{
		Version: DocumentVersion,
		Nodes:   []*Node{{ID: "node-1", Kind: KindRectangle, Label: "A"}},
		Connectors: []*Connector{
			{ID: "conn-1", FromID: "node-1", ToID: "node-ghost", FromPort: PortRight, ToPort: PortLeft},
		},
	}
	if err := New().Import(doc); err == nil {
		t.Fatal("expected error for connector referencing a missing node")
	}
}

// rowByID is a test helper.
func (td *TableData) rowByID(id string) *Row {
	for i := range td.Rows {
		if td.Rows[i].ID == id {
			return &td.Rows[i]
		}
	}
	return nil
}
