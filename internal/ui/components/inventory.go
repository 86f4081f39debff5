// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/voxdraw/internal/ui/styles"
	"github.com/jeranaias/voxdraw/internal/util"
	"github.com/jeranaias/voxdraw/internal/voice"
)

// =============================================================================
// NODE INVENTORY PANEL
// =============================================================================

// Inventory lists the nodes on the canvas so the user can see what the
// resolver will match against.
type Inventory struct {
	theme  *styles.Theme
	width  int
	height int
	nodes  []voice.NodeSummary
}

// NewInventory creates an Inventory panel.
func NewInventory(theme *styles.Theme) *Inventory {
	return &Inventory{
		theme:  theme,
		width:  28,
		height: 12,
	}
}

// SetSize resizes the panel.
func (inv *Inventory) SetSize(width, height int) {
	inv.width = width
	inv.height = height
}

// SetNodes replaces the listed nodes.
func (inv *Inventory) SetNodes(nodes []voice.NodeSummary) {
	inv.nodes = nodes
}

// View renders the panel.
func (inv *Inventory) View() string {
	var b strings.Builder
	b.WriteString(inv.theme.InventoryTitle.Render(fmt.Sprintf("Canvas (%d)", len(inv.nodes))))
	b.WriteByte('\n')

	if len(inv.nodes) == 0 {
		b.WriteString(inv.theme.InventoryEmpty.Render("empty"))
	} else {
		maxRows := inv.height - 2
		if maxRows < 1 {
			maxRows = 1
		}
		for i, n := range inv.nodes {
			if i >= maxRows {
				b.WriteString(inv.theme.InventoryKind.Render(fmt.Sprintf("… and %d more", len(inv.nodes)-maxRows)))
				break
			}
			label := util.TruncateWidth(n.Label, inv.width-12)
			if label == "" {
				label = "(unnamed)"
			}
			b.WriteString(inv.theme.InventoryItem.Render(label))
			b.WriteString(" ")
			b.WriteString(inv.theme.InventoryKind.Render(n.Type))
			b.WriteByte('\n')
		}
	}

	return inv.theme.InventoryPane.Width(inv.width).Height(inv.height).Render(b.String())
}
