// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/voxdraw/internal/ui/styles"
	"github.com/jeranaias/voxdraw/internal/voice"
)

// =============================================================================
// COMMAND HISTORY COMPONENT
// =============================================================================

// History renders the command log in a scrollable viewport.
type History struct {
	viewport viewport.Model
	theme    *styles.Theme
	entries  []voice.LogEntry
}

// NewHistory creates a History sized to a sensible default.
func NewHistory(theme *styles.Theme) *History {
	vp := viewport.New(80, 12)
	return &History{
		viewport: vp,
		theme:    theme,
	}
}

// SetSize resizes the viewport.
func (h *History) SetSize(width, height int) {
	h.viewport.Width = width
	h.viewport.Height = height
	h.refresh()
}

// SetEntries replaces the rendered log and scrolls to the newest entry.
func (h *History) SetEntries(entries []voice.LogEntry) {
	h.entries = entries
	h.refresh()
	h.viewport.GotoBottom()
}

// refresh re-renders the viewport content from the entries.
func (h *History) refresh() {
	if len(h.entries) == 0 {
		h.viewport.SetContent(h.theme.InventoryEmpty.Render("No commands yet. Try: add a box called login"))
		return
	}

	var b strings.Builder
	for i, entry := range h.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(h.theme.HistoryEcho.Render("» " + entry.Transcript))
		b.WriteByte('\n')
		if entry.OK {
			b.WriteString(h.theme.HistoryOK.Render("  " + entry.Result))
		} else {
			b.WriteString(h.theme.HistoryFail.Render("  " + entry.Result))
		}
	}
	h.viewport.SetContent(b.String())
}

// Update forwards scroll events to the viewport.
func (h *History) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return cmd
}

// View renders the history pane.
func (h *History) View() string {
	return h.theme.HistoryPane.Render(h.viewport.View())
}
