// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diagram

import (
	"github.com/google/uuid"
)

// =============================================================================
// NODE KINDS
// =============================================================================

// Kind identifies the shape family of a node.
type Kind string

const (
	KindTable     Kind = "table"
	KindRectangle Kind = "rectangle"
	KindRounded   Kind = "rounded"
	KindDiamond   Kind = "diamond"
	KindText      Kind = "text"
	KindBadge     Kind = "badge"
)

// Kinds lists every valid node kind.
var Kinds = []Kind{KindTable, KindRectangle, KindRounded, KindDiamond, KindText, KindBadge}

// Valid reports whether k is one of the known node kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTable, KindRectangle, KindRounded, KindDiamond, KindText, KindBadge:
		return true
	}
	return false
}

// Default geometry for newly created nodes. The placement engine assumes these
// when computing relative offsets for nodes that do not exist yet.
const (
	DefaultWidth  = 200.0
	DefaultHeight = 100.0
)

// =============================================================================
// STYLE
// =============================================================================

// Style holds the visual attributes of a node.
type Style struct {
	Fill         string  `json:"fill"`
	Stroke       string  `json:"stroke"`
	TextColor    string  `json:"text_color"`
	FontSize     int     `json:"font_size"`
	FontWeight   string  `json:"font_weight"` // "normal" or "bold"
	CornerRadius int     `json:"corner_radius"`
	Opacity      float64 `json:"opacity"` // 0.0 - 1.0
}

// DefaultStyle returns the style applied to freshly created nodes.
func DefaultStyle() Style {
	return Style{
		Fill:         "#ffffff",
		Stroke:       "#334155",
		TextColor:    "#0f172a",
		FontSize:     14,
		FontWeight:   "normal",
		CornerRadius: 4,
		Opacity:      1.0,
	}
}

// StyleUpdate is a partial style mutation. Nil fields are left untouched.
type StyleUpdate struct {
	Fill         *string
	Stroke       *string
	TextColor    *string
	FontSize     *int
	FontWeight   *string
	CornerRadius *int
	Opacity      *float64
}

// apply copies the non-nil fields of u onto s.
func (u StyleUpdate) apply(s *Style) {
	if u.Fill != nil {
		s.Fill = *u.Fill
	}
	if u.Stroke != nil {
		s.Stroke = *u.Stroke
	}
	if u.TextColor != nil {
		s.TextColor = *u.TextColor
	}
	if u.FontSize != nil {
		s.FontSize = *u.FontSize
	}
	if u.FontWeight != nil {
		s.FontWeight = *u.FontWeight
	}
	if u.CornerRadius != nil {
		s.CornerRadius = *u.CornerRadius
	}
	if u.Opacity != nil {
		s.Opacity = *u.Opacity
	}
}

// =============================================================================
// TABLE DATA
// =============================================================================

// Column is a single table column with a stable id and a display label.
type Column struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Row is a single table row; Cells maps column id to cell text.
type Row struct {
	ID    string            `json:"id"`
	Cells map[string]string `json:"cells"`
}

// TableData holds the tabular payload of a table-kind node.
type TableData struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTableData returns the tabular payload seeded into new table nodes:
// two generic columns and three empty rows, matching what the canvas editor
// renders for a blank table.
func NewTableData() *TableData {
	td := &TableData{
		Columns: []Column{
			{ID: newID("col"), Label: "Column 1"},
			{ID: newID("col"), Label: "Column 2"},
		},
	}
	for i := 0; i < 3; i++ {
		td.Rows = append(td.Rows, Row{ID: newID("row"), Cells: map[string]string{}})
	}
	return td
}

// clone deep-copies the table data for undo snapshots.
func (td *TableData) clone() *TableData {
	if td == nil {
		return nil
	}
	out := &TableData{
		Columns: make([]Column, len(td.Columns)),
		Rows:    make([]Row, len(td.Rows)),
	}
	copy(out.Columns, td.Columns)
	for i, r := range td.Rows {
		cells := make(map[string]string, len(r.Cells))
		for k, v := range r.Cells {
			cells[k] = v
		}
		out.Rows[i] = Row{ID: r.ID, Cells: cells}
	}
	return out
}

// =============================================================================
// NODE
// =============================================================================

// Node is a single shape on the canvas.
//
// Label is the canonical display text. VoiceLabel is an alternate spoken-friendly
// name; entity resolution checks it before the display label so users can give a
// shape a short utterable handle without changing what is rendered.
type Node struct {
	ID         string  `json:"id"`
	Kind       Kind    `json:"kind"`
	Label      string  `json:"label"`
	VoiceLabel string  `json:"voice_label,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Locked     bool    `json:"locked,omitempty"`
	Style      Style   `json:"style"`

	// Table is non-nil only for table-kind nodes.
	Table *TableData `json:"table,omitempty"`
}

// NodeUpdate is a partial node mutation. Nil fields are left untouched.
type NodeUpdate struct {
	Label      *string
	VoiceLabel *string
	Locked     *bool
	Table      *TableData
}

// clone deep-copies the node for undo snapshots.
func (n *Node) clone() *Node {
	out := *n
	out.Table = n.Table.clone()
	return &out
}

// newID returns a prefixed unique identifier, e.g. "node-5f2c...".
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
