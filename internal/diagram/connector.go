// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diagram

// =============================================================================
// PORTS
// =============================================================================

// Port is one of the four attachment sides of a node.
type Port string

const (
	PortTop    Port = "top"
	PortBottom Port = "bottom"
	PortLeft   Port = "left"
	PortRight  Port = "right"
)

// Valid reports whether p is one of the four ports.
func (p Port) Valid() bool {
	switch p {
	case PortTop, PortBottom, PortLeft, PortRight:
		return true
	}
	return false
}

// =============================================================================
// CONNECTOR
// =============================================================================

// Connector is a directed edge between two nodes. FromID and ToID always
// reference nodes that existed when the connector was created; deleting a node
// garbage-collects its connectors.
type Connector struct {
	ID       string `json:"id"`
	FromID   string `json:"from_id"`
	FromPort Port   `json:"from_port"`
	ToID     string `json:"to_id"`
	ToPort   Port   `json:"to_port"`
	Label    string `json:"label,omitempty"`

	// Line style
	Stroke      string `json:"stroke"`
	StrokeWidth int    `json:"stroke_width"`
	Dashed      bool   `json:"dashed,omitempty"`
}

// ConnectorUpdate is a partial connector mutation. Nil fields are left untouched.
type ConnectorUpdate struct {
	Label    *string
	FromPort *Port
	ToPort   *Port
	Stroke   *string
	Dashed   *bool
}

// apply copies the non-nil fields of u onto c.
func (u ConnectorUpdate) apply(c *Connector) {
	if u.Label != nil {
		c.Label = *u.Label
	}
	if u.FromPort != nil {
		c.FromPort = *u.FromPort
	}
	if u.ToPort != nil {
		c.ToPort = *u.ToPort
	}
	if u.Stroke != nil {
		c.Stroke = *u.Stroke
	}
	if u.Dashed != nil {
		c.Dashed = *u.Dashed
	}
}

// clone copies the connector for undo snapshots.
func (c *Connector) clone() *Connector {
	out := *c
	return &out
}
