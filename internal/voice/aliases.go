// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jeranaias/voxdraw/internal/diagram"
)

// =============================================================================
// SHAPE KIND ALIASES
// =============================================================================

// shapeAliases maps spoken shape words onto the node kind enumeration.
// Lookup is case-insensitive; keys are stored lower-case.
var shapeAliases = map[string]diagram.Kind{
	"table":       diagram.KindTable,
	"grid":        diagram.KindTable,
	"entity":      diagram.KindTable,
	"spreadsheet": diagram.KindTable,

	"rectangle": diagram.KindRectangle,
	"rect":      diagram.KindRectangle,
	"box":       diagram.KindRectangle,
	"block":     diagram.KindRectangle,
	"process":   diagram.KindRectangle,
	"widget":    diagram.KindRectangle,
	"node":      diagram.KindRectangle,
	"shape":     diagram.KindRectangle,

	"rounded rectangle": diagram.KindRounded,
	"rounded box":       diagram.KindRounded,
	"rounded":           diagram.KindRounded,
	"card":              diagram.KindRounded,
	"pill":              diagram.KindRounded,

	"diamond":   diagram.KindDiamond,
	"decision":  diagram.KindDiamond,
	"condition": diagram.KindDiamond,
	"if block":  diagram.KindDiamond,
	"rhombus":   diagram.KindDiamond,

	"text":    diagram.KindText,
	"label":   diagram.KindText,
	"note":    diagram.KindText,
	"caption": diagram.KindText,

	"badge": diagram.KindBadge,
	"chip":  diagram.KindBadge,
	"tag":   diagram.KindBadge,
}

// ResolveShape maps a spoken shape word to a node kind.
func ResolveShape(word string) (diagram.Kind, bool) {
	k, ok := shapeAliases[strings.ToLower(strings.TrimSpace(word))]
	return k, ok
}

// =============================================================================
// DIRECTION ALIASES
// =============================================================================

// Direction is a placement direction relative to a reference node.
type Direction string

const (
	DirLeft  Direction = "left"
	DirRight Direction = "right"
	DirAbove Direction = "above"
	DirBelow Direction = "below"
)

// directionAliases normalizes spoken spatial phrases. Longer phrases must be
// matched before shorter ones; the grammar sorts keys by length when building
// its alternation.
var directionAliases = map[string]Direction{
	"left of":          DirLeft,
	"to the left of":   DirLeft,
	"left":             DirLeft,
	"right of":         DirRight,
	"to the right of":  DirRight,
	"right":            DirRight,
	"above":            DirAbove,
	"over":             DirAbove,
	"on top of":        DirAbove,
	"top of":           DirAbove,
	"below":            DirBelow,
	"under":            DirBelow,
	"beneath":          DirBelow,
	"underneath":       DirBelow,
	"at the bottom of": DirBelow,
}

// ResolveDirection maps a spoken spatial phrase to a placement direction.
func ResolveDirection(phrase string) (Direction, bool) {
	d, ok := directionAliases[strings.ToLower(strings.TrimSpace(phrase))]
	return d, ok
}

// =============================================================================
// NUDGE DIRECTION ALIASES
// =============================================================================

// NudgeDirection is a cardinal move direction, independent of any reference.
type NudgeDirection string

const (
	NudgeUp    NudgeDirection = "up"
	NudgeDown  NudgeDirection = "down"
	NudgeLeft  NudgeDirection = "left"
	NudgeRight NudgeDirection = "right"
)

var nudgeAliases = map[string]NudgeDirection{
	"up":    NudgeUp,
	"down":  NudgeDown,
	"left":  NudgeLeft,
	"right": NudgeRight,
}

// ResolveNudge maps a spoken word to a nudge direction.
func ResolveNudge(word string) (NudgeDirection, bool) {
	n, ok := nudgeAliases[strings.ToLower(strings.TrimSpace(word))]
	return n, ok
}

// =============================================================================
// NAMED COLORS
// =============================================================================

// namedColors maps common color names to hex values (the editor's palette).
var namedColors = map[string]string{
	"red":     "#ef4444",
	"orange":  "#f97316",
	"amber":   "#f59e0b",
	"yellow":  "#eab308",
	"lime":    "#84cc16",
	"green":   "#22c55e",
	"emerald": "#10b981",
	"teal":    "#14b8a6",
	"cyan":    "#06b6d4",
	"sky":     "#0ea5e9",
	"blue":    "#3b82f6",
	"indigo":  "#6366f1",
	"violet":  "#8b5cf6",
	"purple":  "#a855f7",
	"pink":    "#ec4899",
	"rose":    "#f43f5e",
	"slate":   "#64748b",
	"gray":    "#6b7280",
	"grey":    "#6b7280",
	"white":   "#ffffff",
	"black":   "#000000",
}

// hexColorPattern accepts #rgb through #rrggbbaa literals.
var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

// ResolveColor maps a spoken color name (or a hex literal, passed through
// unchanged) to a hex color. An unrecognized name is a reported failure for
// the caller, never a guess.
func ResolveColor(value string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if hexColorPattern.MatchString(value) {
		return value, true
	}
	hex, ok := namedColors[value]
	return hex, ok
}

// directionAlternation returns the direction alias phrases as a regexp
// alternation, longest phrase first so that "to the left of" wins over "left".
func directionAlternation() string {
	keys := make([]string, 0, len(directionAliases))
	for k := range directionAliases {
		keys = append(keys, k)
	}
	// Map iteration order is random; sort by length desc, then lexically for
	// determinism.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = regexp.QuoteMeta(k)
	}
	return strings.Join(escaped, "|")
}
