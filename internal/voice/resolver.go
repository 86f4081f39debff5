// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"strings"

	"github.com/jeranaias/voxdraw/internal/diagram"
)

// =============================================================================
// ENTITY RESOLUTION
// =============================================================================

// FindNode resolves a spoken name against a node snapshot using three
// escalating tiers: exact match, prefix match, then substring match, each
// case-insensitive against the voice label first and the display label second.
// Within a tier the first node in iteration (creation) order wins; there is no
// scoring. That makes "Order" resolve to whichever of "Orders"/"OrderItems"
// was created first — a deliberate, documented tradeoff, not a bug.
//
// Returns nil when no tier matches.
func FindNode(nodes []*diagram.Node, name string) *diagram.Node {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}

	type tier func(label string) bool
	tiers := []tier{
		func(label string) bool { return label == name },
		func(label string) bool { return strings.HasPrefix(label, name) },
		func(label string) bool { return strings.Contains(label, name) },
	}

	for _, matches := range tiers {
		for _, n := range nodes {
			if v := strings.ToLower(n.VoiceLabel); v != "" && matches(v) {
				return n
			}
			if matches(strings.ToLower(n.Label)) {
				return n
			}
		}
	}
	return nil
}

// FindConnector resolves both spoken endpoint names and returns the first
// connector running from the first node to the second, in that direction only.
// Returns nil if either name fails to resolve or no such connector exists.
func FindConnector(nodes []*diagram.Node, connectors []*diagram.Connector, fromName, toName string) *diagram.Connector {
	from := FindNode(nodes, fromName)
	to := FindNode(nodes, toName)
	if from == nil || to == nil {
		return nil
	}
	for _, c := range connectors {
		if c.FromID == from.ID && c.ToID == to.ID {
			return c
		}
	}
	return nil
}

// =============================================================================
// PORT HEURISTIC
// =============================================================================

// ChoosePorts picks attachment sides for a new connector from the relative
// geometry of its endpoints, so the user never has to speak ports. A source
// left of its target exits on the right and enters on the left; otherwise the
// vertical relationship decides top/bottom symmetrically.
func ChoosePorts(from, to *diagram.Node) (diagram.Port, diagram.Port) {
	fromCX := from.X + from.Width/2
	toCX := to.X + to.Width/2
	fromCY := from.Y + from.Height/2
	toCY := to.Y + to.Height/2

	dx := toCX - fromCX
	dy := toCY - fromCY

	if abs(dx) >= abs(dy) {
		if dx >= 0 {
			return diagram.PortRight, diagram.PortLeft
		}
		return diagram.PortLeft, diagram.PortRight
	}
	if dy >= 0 {
		return diagram.PortBottom, diagram.PortTop
	}
	return diagram.PortTop, diagram.PortBottom
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
