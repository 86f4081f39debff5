// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"github.com/jeranaias/voxdraw/internal/diagram"
)

// =============================================================================
// PLACEMENT ENGINE
// =============================================================================

const (
	// PlacementGap separates a newly placed node from its reference.
	PlacementGap = 50.0

	// Fallback origin for the first node on an empty canvas.
	originX = 120.0
	originY = 120.0
)

// PlaceRelative computes the top-left position for a new node of default size
// offset from ref in the given direction by PlacementGap.
func PlaceRelative(ref *diagram.Node, dir Direction) (x, y float64) {
	switch dir {
	case DirRight:
		return ref.X + ref.Width + PlacementGap, ref.Y
	case DirLeft:
		return ref.X - diagram.DefaultWidth - PlacementGap, ref.Y
	case DirAbove:
		return ref.X, ref.Y - diagram.DefaultHeight - PlacementGap
	case DirBelow:
		return ref.X, ref.Y + ref.Height + PlacementGap
	}
	return ref.X, ref.Y
}

// PlaceDefault computes the fallback position: the origin on an empty canvas,
// otherwise to the right of the most recently created node. This keeps a run
// of bare "add box" commands from stacking shapes on top of one another.
func PlaceDefault(nodes []*diagram.Node) (x, y float64) {
	if len(nodes) == 0 {
		return originX, originY
	}
	last := nodes[len(nodes)-1]
	return last.X + last.Width + PlacementGap, last.Y
}
