// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/voxdraw/internal/diagram"
)

func newTestEngine() (*Engine, *diagram.Diagram) {
	d := diagram.New()
	return NewEngine(d), d
}

// nodeByLabel is a test helper; resolution in tests goes through labels, not
// engine internals.
func nodeByLabel(d *diagram.Diagram, label string) *diagram.Node {
	for _, n := range d.Nodes() {
		if n.Label == label {
			return n
		}
	}
	return nil
}

// =============================================================================
// GENERAL EXECUTION CONTRACT
// =============================================================================

func TestExecuteAlwaysLogsExactlyOnce(t *testing.T) {
	e, _ := newTestEngine()

	transcripts := []string{
		"add a box called Start",
		"complete gibberish here",
		"delete something that does not exist",
		"undo",
		"",
	}

	for i, transcript := range transcripts {
		result := e.Execute(transcript)
		if result == "" {
			t.Errorf("Execute(%q) returned an empty result", transcript)
		}
		history := e.History()
		if len(history) != i+1 {
			t.Fatalf("history length = %d after %d commands", len(history), i+1)
		}
		last := history[len(history)-1]
		if last.Transcript != transcript {
			t.Errorf("logged transcript = %q, want %q", last.Transcript, transcript)
		}
		if last.Result != result {
			t.Errorf("logged result differs from returned result")
		}
		if e.LastResult() != result {
			t.Errorf("LastResult() = %q, want %q", e.LastResult(), result)
		}
	}
}

func TestCommandLogEviction(t *testing.T) {
	e, _ := newTestEngine()

	// 60 distinct commands; only the most recent 50 survive.
	for i := 0; i < 60; i++ {
		e.Execute(fmt.Sprintf("add box called Node%02d", i))
	}

	history := e.History()
	if len(history) != MaxLogEntries {
		t.Fatalf("history length = %d, want %d", len(history), MaxLogEntries)
	}
	if history[0].Transcript != "add box called Node10" {
		t.Errorf("oldest surviving entry = %q, want the 11th command", history[0].Transcript)
	}
	if history[len(history)-1].Transcript != "add box called Node59" {
		t.Errorf("newest entry = %q, want the 60th command", history[len(history)-1].Transcript)
	}
}

func TestUnknownTranscript(t *testing.T) {
	e, _ := newTestEngine()
	e.Execute("abracadabra please")

	entry, ok := e.log.last()
	if !ok || entry.OK {
		t.Error("unknown transcript should log a failure entry")
	}
	assert.Contains(t, entry.Result, "help")
}

// =============================================================================
// CREATION AND PLACEMENT
// =============================================================================

func TestAddAndRelativePlacement(t *testing.T) {
	e, d := newTestEngine()

	e.Execute("add rectangle called Foo")
	e.Execute("add rectangle called Bar right of Foo")

	foo := nodeByLabel(d, "Foo")
	bar := nodeByLabel(d, "Bar")
	require.NotNil(t, foo)
	require.NotNil(t, bar)

	assert.Equal(t, foo.X+foo.Width+PlacementGap, bar.X)
	assert.Equal(t, foo.Y, bar.Y)
}

func TestAddAutoName(t *testing.T) {
	e, d := newTestEngine()

	e.Execute("add diamond")
	e.Execute("add diamond")

	require.NotNil(t, nodeByLabel(d, "Diamond 1"))
	require.NotNil(t, nodeByLabel(d, "Diamond 2"))
}

func TestAddRelativeUnresolvedRefFallsBack(t *testing.T) {
	e, d := newTestEngine()

	e.Execute("add box called Foo")
	e.Execute("add box called Bar right of Nonexistent")

	bar := nodeByLabel(d, "Bar")
	require.NotNil(t, bar, "node is still created when the reference is unknown")

	foo := nodeByLabel(d, "Foo")
	assert.Equal(t, foo.X+foo.Width+PlacementGap, bar.X, "fallback places right of the newest node")
}

func TestRepeatedBareAddsDoNotStack(t *testing.T) {
	e, d := newTestEngine()

	e.Execute("add box")
	e.Execute("add box")
	e.Execute("add box")

	seen := map[float64]bool{}
	for _, n := range d.Nodes() {
		if seen[n.X] {
			t.Fatalf("two nodes share x=%g", n.X)
		}
		seen[n.X] = true
	}
}

// =============================================================================
// STYLE
// =============================================================================

func TestSetColorByName(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add box called Foo")

	result := e.Execute("set Foo color to blue")
	assert.Contains(t, result, "#3b82f6")
	assert.Equal(t, "#3b82f6", nodeByLabel(d, "Foo").Style.Fill)
}

func TestSetColorUnknownNameFails(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add box called Foo")
	before := nodeByLabel(d, "Foo").Style

	e.Execute("set Foo color to mauve")

	entry, _ := e.log.last()
	assert.False(t, entry.OK, "mauve is not in the palette")
	assert.Equal(t, before, nodeByLabel(d, "Foo").Style, "failed command must not mutate")
}

func TestStyleValidationBounds(t *testing.T) {
	e, _ := newTestEngine()
	e.Execute("add box called Foo")

	tests := []struct {
		transcript string
		wantOK     bool
	}{
		{"set Foo font size to 18", true},
		{"set Foo font size to 5", false},
		{"set Foo font size to 73", false},
		{"set Foo font size to big", false},
		{"set Foo opacity to 0.5", true},
		{"set Foo opacity to 1.5", false},
		{"set Foo radius to 12", true},
		{"set Foo radius to -4", true}, // no bound on radius, only integer-ness
		{"set Foo radius to round", false},
		{"set Foo width to 300", true},
		{"set Foo width to 10", false},
		{"set Foo to #12fc", true}, // 4-digit hex literal
	}

	for _, tc := range tests {
		e.Execute(tc.transcript)
		entry, _ := e.log.last()
		if entry.OK != tc.wantOK {
			t.Errorf("Execute(%q) ok = %v, want %v (result %q)", tc.transcript, entry.OK, tc.wantOK, entry.Result)
		}
	}
}

func TestBoldToggle(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add box called Foo")

	e.Execute("make Foo bold")
	assert.Equal(t, "bold", nodeByLabel(d, "Foo").Style.FontWeight)

	e.Execute("set Foo normal")
	assert.Equal(t, "normal", nodeByLabel(d, "Foo").Style.FontWeight)
}

// =============================================================================
// RESIZE
// =============================================================================

func TestResizeAbsoluteValidatesMinimum(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add box called Foo")

	e.Execute("resize Foo to 10 by 10")
	entry, _ := e.log.last()
	assert.False(t, entry.OK)
	assert.Contains(t, entry.Result, "Width")

	foo := nodeByLabel(d, "Foo")
	assert.Equal(t, diagram.DefaultWidth, foo.Width, "failed resize must not mutate")
}

func TestResizeRelativeClampsToFloor(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add box called Foo")

	// Shrink far past the floor; the relative path clamps instead of failing.
	for i := 0; i < 10; i++ {
		e.Execute("make Foo smaller")
	}

	foo := nodeByLabel(d, "Foo")
	assert.Equal(t, MinRelativeWidth, foo.Width)
	assert.Equal(t, MinRelativeHeight, foo.Height)

	entry, _ := e.log.last()
	assert.True(t, entry.OK, "clamped resize still succeeds")
}

// =============================================================================
// CONNECT / LABEL
// =============================================================================

func TestConnectChoosesPortsAndAllowsDuplicates(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add box called Foo")
	e.Execute("add box called Bar right of Foo")

	e.Execute("connect Foo to Bar")
	conns := d.Connectors()
	require.Len(t, conns, 1)
	assert.Equal(t, diagram.PortRight, conns[0].FromPort)
	assert.Equal(t, diagram.PortLeft, conns[0].ToPort)

	// No dedup contract: a second identical connect creates a second
	// connector.
	e.Execute("connect Foo to Bar")
	assert.Len(t, d.Connectors(), 2)
}

func TestConnectUnresolvedEndpointFails(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add box called Foo")

	result := e.Execute("connect Foo to Ghost")
	assert.Contains(t, result, "Ghost")
	assert.Empty(t, d.Connectors(), "no connector may be created for unresolved names")
}

func TestLabelConnector(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add box called Foo")
	e.Execute("add box called Bar right of Foo")

	// Labeling before any connector exists is a precondition failure.
	e.Execute("label Foo to Bar as places")
	entry, _ := e.log.last()
	assert.False(t, entry.OK)

	e.Execute("connect Foo to Bar")
	e.Execute("label Foo to Bar as places")
	entry, _ = e.log.last()
	assert.True(t, entry.OK)
	assert.Equal(t, "places", d.Connectors()[0].Label)
}

// =============================================================================
// MOVE / RENAME / DELETE / SELECT
// =============================================================================

func TestMoveRelativeAndNudge(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add box called Foo")
	e.Execute("add box called Bar")

	e.Execute("move Bar below Foo")
	foo := nodeByLabel(d, "Foo")
	bar := nodeByLabel(d, "Bar")
	assert.Equal(t, foo.X, bar.X)
	assert.Equal(t, foo.Y+foo.Height+PlacementGap, bar.Y)

	x := bar.X
	e.Execute("nudge Bar right")
	assert.Equal(t, x+DefaultNudgeStep, nodeByLabel(d, "Bar").X)

	e.Execute("move Bar left 15")
	assert.Equal(t, x+DefaultNudgeStep-15, nodeByLabel(d, "Bar").X)
}

func TestRenameUpdatesResolution(t *testing.T) {
	e, _ := newTestEngine()
	e.Execute("add box called Foo")
	e.Execute("rename Foo to Baz")

	e.Execute("select Foo")
	entry, _ := e.log.last()
	assert.False(t, entry.OK, "old name must stop resolving")

	e.Execute("select Baz")
	entry, _ = e.log.last()
	assert.True(t, entry.OK)
}

func TestDeleteAndDeleteAll(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add box called Foo")
	e.Execute("add box called Bar")

	e.Execute("delete Foo")
	assert.Equal(t, 1, d.NodeCount())

	e.Execute("clear canvas")
	assert.Equal(t, 0, d.NodeCount())
}

func TestDuplicateCommand(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add box called Foo")
	e.Execute("duplicate Foo")
	assert.Equal(t, 2, d.NodeCount())
}

// =============================================================================
// UNDO / REDO THROUGH THE ENGINE
// =============================================================================

func TestUndoRedoRoundTrip(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add box called Foo")
	e.Execute("nudge Foo right 100")
	moved := nodeByLabel(d, "Foo").X

	e.Execute("undo")
	assert.Equal(t, moved-100, nodeByLabel(d, "Foo").X)

	e.Execute("redo")
	assert.Equal(t, moved, nodeByLabel(d, "Foo").X)
}

func TestUndoOnEmptyHistoryFails(t *testing.T) {
	e, _ := newTestEngine()
	e.Execute("undo")
	entry, _ := e.log.last()
	assert.False(t, entry.OK)
}

// =============================================================================
// TABLE COMMANDS
// =============================================================================

func TestTableCommands(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add table called Orders")

	e.Execute("add row to Orders")
	orders := nodeByLabel(d, "Orders")
	require.NotNil(t, orders)
	assert.Len(t, orders.Table.Rows, 4)

	e.Execute("add column Price to Orders")
	assert.Len(t, orders.Table.Columns, 3)
	assert.Equal(t, "Price", orders.Table.Columns[2].Label)

	e.Execute("set Orders row 1 column 3 to 9.99")
	colID := orders.Table.Columns[2].ID
	assert.Equal(t, "9.99", orders.Table.Rows[0].Cells[colID])

	// fill writes the first empty cell of the column.
	e.Execute("fill Orders price with 4.50")
	assert.Equal(t, "4.50", orders.Table.Rows[1].Cells[colID])

	// Out-of-range indices are validation failures.
	e.Execute("set Orders row 99 column 1 to nope")
	entry, _ := e.log.last()
	assert.False(t, entry.OK)
}

func TestTableCommandsRejectNonTable(t *testing.T) {
	e, _ := newTestEngine()
	e.Execute("add box called Foo")

	result := e.Execute("add row to Foo")
	assert.Contains(t, result, "isn't a table")
}

func TestFillColumnNoEmptyRowFails(t *testing.T) {
	e, d := newTestEngine()
	e.Execute("add table called Orders")
	orders := nodeByLabel(d, "Orders")

	for i := 1; i <= len(orders.Table.Rows); i++ {
		e.Execute(fmt.Sprintf("set Orders row %d column 1 to full", i))
	}

	e.Execute("fill Orders column 1 with extra")
	entry, _ := e.log.last()
	assert.False(t, entry.OK, "no empty row left to fill")
}

// =============================================================================
// INVENTORY
// =============================================================================

func TestNodeInventory(t *testing.T) {
	e, _ := newTestEngine()
	e.Execute("add table called Orders")
	e.Execute("add box called Start")

	inv := e.NodeInventory()
	require.Len(t, inv, 2)
	assert.Equal(t, "Orders", inv[0].Label)
	assert.Equal(t, "table", inv[0].Type)
	assert.Equal(t, "Start", inv[1].Label)
	assert.Equal(t, "rectangle", inv[1].Type)
}
