// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"github.com/jeranaias/voxdraw/internal/diagram"
)

// =============================================================================
// CANVAS INTERFACE
// =============================================================================

// Canvas is the mutation surface the engine drives. diagram.Diagram is the
// sole implementation; the indirection keeps the engine testable without any
// rendering or UI harness.
type Canvas interface {
	// Reads
	Nodes() []*diagram.Node
	Connectors() []*diagram.Connector
	CountKind(diagram.Kind) int

	// Node mutations
	CreateNode(kind diagram.Kind, x, y float64, label string) (string, error)
	MoveNode(id string, x, y float64) error
	ResizeNode(id string, w, h float64) error
	DeleteNodes(ids []string) error
	Clear()
	UpdateNode(id string, u diagram.NodeUpdate) error
	UpdateNodeStyle(id string, u diagram.StyleUpdate) error

	// Connector mutations
	CreateConnector(fromID string, fromPort diagram.Port, toID string, toPort diagram.Port, label string) (string, error)
	UpdateConnector(id string, u diagram.ConnectorUpdate) error

	// Table mutations
	AddTableRow(id string) (string, error)
	AddTableColumn(id, label string) (string, error)
	UpdateTableCell(id, rowID, colID, value string) error

	// Selection and history
	SelectNodes(ids []string, additive bool)
	ClearSelection()
	Undo() error
	Redo() error
	DuplicateSelection() ([]string, error)
}

var _ Canvas = (*diagram.Diagram)(nil)

// =============================================================================
// ENGINE
// =============================================================================

// NodeSummary is the inventory projection exposed to the UI shells for chips
// and autocomplete hints.
type NodeSummary struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Engine ties the grammar, resolver, placement, and executor together around
// one Canvas. It is synchronous: each transcript is parsed and executed to
// completion before the next is accepted, and no failure ever escapes as an
// error — Execute always returns a human-readable result string.
type Engine struct {
	canvas Canvas
	parser *Parser
	log    commandLog
}

// NewEngine creates an engine over the given canvas.
func NewEngine(canvas Canvas) *Engine {
	return &Engine{
		canvas: canvas,
		parser: NewParser(),
	}
}

// Execute interprets one transcript, mutates the canvas accordingly, appends
// exactly one entry to the command log, and returns the result string.
func (e *Engine) Execute(transcript string) string {
	cmd := e.parser.Parse(transcript)
	result, ok := e.dispatch(cmd)
	e.log.append(transcript, result, ok)
	return result
}

// LastResult returns the result string of the most recent execution, or "".
func (e *Engine) LastResult() string {
	if entry, ok := e.log.last(); ok {
		return entry.Result
	}
	return ""
}

// LastEntry returns the most recent log entry, if any.
func (e *Engine) LastEntry() (LogEntry, bool) {
	return e.log.last()
}

// History returns the retained command log, oldest first, capped at
// MaxLogEntries.
func (e *Engine) History() []LogEntry {
	return e.log.all()
}

// NodeInventory projects the current nodes for display.
func (e *Engine) NodeInventory() []NodeSummary {
	nodes := e.canvas.Nodes()
	out := make([]NodeSummary, len(nodes))
	for i, n := range nodes {
		out[i] = NodeSummary{ID: n.ID, Label: n.Label, Type: string(n.Kind)}
	}
	return out
}
