// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diagram

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// SERIALIZABLE DOCUMENT
// =============================================================================

// Document is the serializable form of a diagram, used by storage and by the
// JSON export/import commands. It intentionally excludes selection and the
// undo/redo stacks: those are session state, not document state.
type Document struct {
	Version    int          `json:"version"`
	SavedAt    time.Time    `json:"saved_at"`
	Nodes      []*Node      `json:"nodes"`
	Connectors []*Connector `json:"connectors"`
}

// DocumentVersion is the current document schema version.
const DocumentVersion = 1

// Export captures the diagram as a document.
func (d *Diagram) Export() *Document {
	s := d.capture()
	return &Document{
		Version:    DocumentVersion,
		SavedAt:    time.Now(),
		Nodes:      s.nodes,
		Connectors: s.connectors,
	}
}

// Import replaces the diagram contents with the document. The previous state
// remains reachable through undo.
func (d *Diagram) Import(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	if doc.Version > DocumentVersion {
		return fmt.Errorf("unsupported document version %d", doc.Version)
	}
	// Reject connectors that reference missing nodes rather than importing a
	// corrupt document.
	byID := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		byID[n.ID] = true
	}
	for _, c := range doc.Connectors {
		if !byID[c.FromID] || !byID[c.ToID] {
			return fmt.Errorf("connector %s references a missing node", c.ID)
		}
	}

	d.checkpoint()
	d.nodes = make([]*Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		d.nodes[i] = n.clone()
	}
	d.connectors = make([]*Connector, len(doc.Connectors))
	for i, c := range doc.Connectors {
		d.connectors[i] = c.clone()
	}
	d.selection = nil
	return nil
}

// Marshal renders the document as indented JSON.
func (doc *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// UnmarshalDocument parses a document from JSON.
func UnmarshalDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse diagram document: %w", err)
	}
	return &doc, nil
}
