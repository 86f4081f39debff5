// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"testing"

	"github.com/jeranaias/voxdraw/internal/diagram"
)

func TestResolveShape(t *testing.T) {
	tests := []struct {
		word string
		want diagram.Kind
		ok   bool
	}{
		{"box", diagram.KindRectangle, true},
		{"process", diagram.KindRectangle, true},
		{"widget", diagram.KindRectangle, true},
		{"decision", diagram.KindDiamond, true},
		{"if block", diagram.KindDiamond, true},
		{"rounded rectangle", diagram.KindRounded, true},
		{"TABLE", diagram.KindTable, true},
		{"note", diagram.KindText, true},
		{"chip", diagram.KindBadge, true},
		{"triangle", "", false},
	}

	for _, tc := range tests {
		got, ok := ResolveShape(tc.word)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ResolveShape(%q) = %s,%v; want %s,%v", tc.word, got, ok, tc.want, tc.ok)
		}
	}
}

func TestResolveDirection(t *testing.T) {
	tests := []struct {
		phrase string
		want   Direction
		ok     bool
	}{
		{"to the left of", DirLeft, true},
		{"right of", DirRight, true},
		{"over", DirAbove, true},
		{"on top of", DirAbove, true},
		{"under", DirBelow, true},
		{"beside", "", false},
	}

	for _, tc := range tests {
		got, ok := ResolveDirection(tc.phrase)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ResolveDirection(%q) = %s,%v; want %s,%v", tc.phrase, got, ok, tc.want, tc.ok)
		}
	}
}

func TestResolveColor(t *testing.T) {
	tests := []struct {
		value string
		want  string
		ok    bool
	}{
		{"blue", "#3b82f6", true},
		{"Blue", "#3b82f6", true},
		{"grey", "#6b7280", true},
		{"gray", "#6b7280", true},
		{"#abc", "#abc", true},
		{"#AABBCCDD", "#aabbccdd", true},
		{"mauve", "", false},
		{"#12", "", false},       // too short
		{"#12345678f", "", false}, // too long
		{"blueish", "", false},
	}

	for _, tc := range tests {
		got, ok := ResolveColor(tc.value)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ResolveColor(%q) = %q,%v; want %q,%v", tc.value, got, ok, tc.want, tc.ok)
		}
	}
}
