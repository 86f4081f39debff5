// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diagram

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrConnectorNotFound = errors.New("connector not found")
	ErrNotTable          = errors.New("node is not a table")
	ErrColumnNotFound    = errors.New("table column not found")
	ErrRowNotFound       = errors.New("table row not found")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrInvalidKind       = errors.New("invalid node kind")
)

// MaxUndoDepth bounds the undo and redo stacks.
const MaxUndoDepth = 100

// =============================================================================
// DIAGRAM
// =============================================================================

// Diagram is the mutable document. Nodes and connectors keep creation order,
// which callers rely on for first-match entity resolution and for the
// "most recently created" placement fallback.
//
// Diagram is not safe for concurrent use; the hosts serialize access (one
// command executes to completion before the next is accepted).
type Diagram struct {
	nodes      []*Node
	connectors []*Connector
	selection  []string // node ids, in selection order

	undo []snapshot
	redo []snapshot
}

// snapshot is a deep copy of the document used by undo/redo. Selection is
// deliberately excluded: selecting is not an undoable edit.
type snapshot struct {
	nodes      []*Node
	connectors []*Connector
}

// New returns an empty diagram.
func New() *Diagram {
	return &Diagram{}
}

// =============================================================================
// READ SURFACE
// =============================================================================

// Nodes returns the nodes in creation order. The returned slice is a copy; the
// pointed-to nodes are live and must not be mutated by callers.
func (d *Diagram) Nodes() []*Node {
	out := make([]*Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Connectors returns the connectors in creation order (copied slice).
func (d *Diagram) Connectors() []*Connector {
	out := make([]*Connector, len(d.connectors))
	copy(out, d.connectors)
	return out
}

// Node returns the node with the given id, or nil.
func (d *Diagram) Node(id string) *Node {
	for _, n := range d.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Connector returns the connector with the given id, or nil.
func (d *Diagram) Connector(id string) *Connector {
	for _, c := range d.connectors {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Selection returns the ids of the currently selected nodes.
func (d *Diagram) Selection() []string {
	out := make([]string, len(d.selection))
	copy(out, d.selection)
	return out
}

// NodeCount returns the number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// CountKind returns how many nodes of the given kind exist.
func (d *Diagram) CountKind(k Kind) int {
	count := 0
	for _, n := range d.nodes {
		if n.Kind == k {
			count++
		}
	}
	return count
}

// =============================================================================
// NODE MUTATIONS
// =============================================================================

// CreateNode adds a node of the given kind at (x, y) and returns its id.
// An empty label is allowed; the command engine auto-names in that case before
// calling. Table-kind nodes are seeded with an empty starter table.
func (d *Diagram) CreateNode(kind Kind, x, y float64, label string) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	d.checkpoint()

	n := &Node{
		ID:     newID("node"),
		Kind:   kind,
		Label:  label,
		X:      x,
		Y:      y,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Style:  DefaultStyle(),
	}
	if kind == KindTable {
		n.Table = NewTableData()
	}
	d.nodes = append(d.nodes, n)
	return n.ID, nil
}

// MoveNode repositions a node to absolute coordinates.
func (d *Diagram) MoveNode(id string, x, y float64) error {
	n := d.Node(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	d.checkpoint()
	n.X, n.Y = x, y
	return nil
}

// ResizeNode sets a node's width and height. Values below 1 are clamped; the
// command engine enforces its own stricter minimums before calling.
func (d *Diagram) ResizeNode(id string, w, h float64) error {
	n := d.Node(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	d.checkpoint()
	n.Width, n.Height = w, h
	return nil
}

// DeleteNodes removes the given nodes and every connector touching them.
// Unknown ids are ignored. Deleted nodes are also dropped from the selection.
func (d *Diagram) DeleteNodes(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if d.Node(id) != nil {
			doomed[id] = true
		}
	}
	if len(doomed) == 0 {
		return ErrNodeNotFound
	}
	d.checkpoint()

	kept := d.nodes[:0]
	for _, n := range d.nodes {
		if !doomed[n.ID] {
			kept = append(kept, n)
		}
	}
	d.nodes = kept

	keptConns := d.connectors[:0]
	for _, c := range d.connectors {
		if !doomed[c.FromID] && !doomed[c.ToID] {
			keptConns = append(keptConns, c)
		}
	}
	d.connectors = keptConns

	keptSel := d.selection[:0]
	for _, id := range d.selection {
		if !doomed[id] {
			keptSel = append(keptSel, id)
		}
	}
	d.selection = keptSel
	return nil
}

// Clear removes every node and connector.
func (d *Diagram) Clear() {
	if len(d.nodes) == 0 && len(d.connectors) == 0 {
		return
	}
	d.checkpoint()
	d.nodes = nil
	d.connectors = nil
	d.selection = nil
}

// UpdateNode applies a partial update to a node.
func (d *Diagram) UpdateNode(id string, u NodeUpdate) error {
	n := d.Node(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	d.checkpoint()
	if u.Label != nil {
		n.Label = *u.Label
	}
	if u.VoiceLabel != nil {
		n.VoiceLabel = *u.VoiceLabel
	}
	if u.Locked != nil {
		n.Locked = *u.Locked
	}
	if u.Table != nil {
		n.Table = u.Table
	}
	return nil
}

// UpdateNodeStyle applies a partial style update to a node.
func (d *Diagram) UpdateNodeStyle(id string, u StyleUpdate) error {
	n := d.Node(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	d.checkpoint()
	u.apply(&n.Style)
	return nil
}

// =============================================================================
// CONNECTOR MUTATIONS
// =============================================================================

// CreateConnector adds a directed connector between two existing nodes and
// returns its id. Both endpoints must exist; this is what keeps dangling
// references out of the document.
func (d *Diagram) CreateConnector(fromID string, fromPort Port, toID string, toPort Port, label string) (string, error) {
	if d.Node(fromID) == nil {
		return "", fmt.Errorf("%w: %s", ErrNodeNotFound, fromID)
	}
	if d.Node(toID) == nil {
		return "", fmt.Errorf("%w: %s", ErrNodeNotFound, toID)
	}
	if !fromPort.Valid() || !toPort.Valid() {
		return "", fmt.Errorf("invalid port %q/%q", fromPort, toPort)
	}
	d.checkpoint()

	c := &Connector{
		ID:          newID("conn"),
		FromID:      fromID,
		FromPort:    fromPort,
		ToID:        toID,
		ToPort:      toPort,
		Label:       label,
		Stroke:      "#64748b",
		StrokeWidth: 2,
	}
	d.connectors = append(d.connectors, c)
	return c.ID, nil
}

// UpdateConnector applies a partial update to a connector.
func (d *Diagram) UpdateConnector(id string, u ConnectorUpdate) error {
	c := d.Connector(id)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrConnectorNotFound, id)
	}
	d.checkpoint()
	u.apply(c)
	return nil
}

// =============================================================================
// TABLE MUTATIONS
// =============================================================================

// table returns the table payload of a node or an error if the node is
// missing or not a table.
func (d *Diagram) table(id string) (*TableData, error) {
	n := d.Node(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if n.Kind != KindTable || n.Table == nil {
		return nil, ErrNotTable
	}
	return n.Table, nil
}

// AddTableRow appends an empty row to a table node and returns the row id.
func (d *Diagram) AddTableRow(id string) (string, error) {
	td, err := d.table(id)
	if err != nil {
		return "", err
	}
	d.checkpoint()
	row := Row{ID: newID("row"), Cells: map[string]string{}}
	td.Rows = append(td.Rows, row)
	return row.ID, nil
}

// AddTableColumn appends a column with the given label and returns the
// column id.
func (d *Diagram) AddTableColumn(id, label string) (string, error) {
	td, err := d.table(id)
	if err != nil {
		return "", err
	}
	d.checkpoint()
	col := Column{ID: newID("col"), Label: label}
	td.Columns = append(td.Columns, col)
	return col.ID, nil
}

// UpdateTableCell sets the text of one cell, addressed by row and column id.
func (d *Diagram) UpdateTableCell(id, rowID, colID, value string) error {
	td, err := d.table(id)
	if err != nil {
		return err
	}
	colOK := false
	for _, c := range td.Columns {
		if c.ID == colID {
			colOK = true
			break
		}
	}
	if !colOK {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, colID)
	}
	for i := range td.Rows {
		if td.Rows[i].ID == rowID {
			d.checkpoint()
			if td.Rows[i].Cells == nil {
				td.Rows[i].Cells = map[string]string{}
			}
			td.Rows[i].Cells[colID] = value
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
}

// =============================================================================
// SELECTION
// =============================================================================

// SelectNodes replaces the selection with the given ids, or appends to it when
// additive is true. Unknown ids are ignored; selection is not undoable.
func (d *Diagram) SelectNodes(ids []string, additive bool) {
	if !additive {
		d.selection = nil
	}
	for _, id := range ids {
		if d.Node(id) == nil {
			continue
		}
		already := false
		for _, sel := range d.selection {
			if sel == id {
				already = true
				break
			}
		}
		if !already {
			d.selection = append(d.selection, id)
		}
	}
}

// ClearSelection empties the selection.
func (d *Diagram) ClearSelection() {
	d.selection = nil
}

// =============================================================================
// DUPLICATE
// =============================================================================

// DuplicateOffset is how far duplicated nodes are shifted from their source.
const DuplicateOffset = 30.0

// DuplicateSelection deep-copies the selected nodes (offset down-right) along
// with any connectors whose endpoints are both selected, selects the copies,
// and returns the new node ids.
func (d *Diagram) DuplicateSelection() ([]string, error) {
	if len(d.selection) == 0 {
		return nil, errors.New("nothing selected")
	}
	d.checkpoint()

	idMap := make(map[string]string, len(d.selection))
	var newIDs []string
	for _, id := range d.selection {
		src := d.Node(id)
		if src == nil {
			continue
		}
		dup := src.clone()
		dup.ID = newID("node")
		dup.X += DuplicateOffset
		dup.Y += DuplicateOffset
		d.nodes = append(d.nodes, dup)
		idMap[src.ID] = dup.ID
		newIDs = append(newIDs, dup.ID)
	}

	for _, c := range d.connectors {
		fromDup, fromOK := idMap[c.FromID]
		toDup, toOK := idMap[c.ToID]
		if !fromOK || !toOK {
			continue
		}
		dup := c.clone()
		dup.ID = newID("conn")
		dup.FromID, dup.ToID = fromDup, toDup
		d.connectors = append(d.connectors, dup)
	}

	d.selection = newIDs
	return newIDs, nil
}

// =============================================================================
// UNDO / REDO
// =============================================================================

// checkpoint pushes the current document onto the undo stack and invalidates
// the redo stack. Called at the top of every undoable mutation.
func (d *Diagram) checkpoint() {
	d.undo = append(d.undo, d.capture())
	if len(d.undo) > MaxUndoDepth {
		d.undo = d.undo[1:]
	}
	d.redo = nil
}

// capture deep-copies the document.
func (d *Diagram) capture() snapshot {
	s := snapshot{
		nodes:      make([]*Node, len(d.nodes)),
		connectors: make([]*Connector, len(d.connectors)),
	}
	for i, n := range d.nodes {
		s.nodes[i] = n.clone()
	}
	for i, c := range d.connectors {
		s.connectors[i] = c.clone()
	}
	return s
}

// restore replaces the document with a snapshot.
func (d *Diagram) restore(s snapshot) {
	d.nodes = s.nodes
	d.connectors = s.connectors
	// Drop selected ids that no longer exist.
	kept := d.selection[:0]
	for _, id := range d.selection {
		if d.Node(id) != nil {
			kept = append(kept, id)
		}
	}
	d.selection = kept
}

// Undo reverts the most recent mutation.
func (d *Diagram) Undo() error {
	if len(d.undo) == 0 {
		return ErrNothingToUndo
	}
	d.redo = append(d.redo, d.capture())
	if len(d.redo) > MaxUndoDepth {
		d.redo = d.redo[1:]
	}
	last := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.restore(last)
	return nil
}

// Redo re-applies the most recently undone mutation.
func (d *Diagram) Redo() error {
	if len(d.redo) == 0 {
		return ErrNothingToRedo
	}
	d.undo = append(d.undo, d.capture())
	if len(d.undo) > MaxUndoDepth {
		d.undo = d.undo[1:]
	}
	last := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	d.restore(last)
	return nil
}
