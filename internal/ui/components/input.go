// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/voxdraw/internal/ui/styles"
)

// =============================================================================
// COMMAND INPUT COMPONENT
// =============================================================================

// CommandInput is the styled text input where transcripts are typed.
type CommandInput struct {
	input textinput.Model
	width int
	theme *styles.Theme
}

// NewCommandInput creates a new CommandInput component.
func NewCommandInput(theme *styles.Theme) *CommandInput {
	ti := textinput.New()
	ti.Placeholder = `Speak a command... ("add a box called login", "help" for the grammar)`
	ti.CharLimit = 500
	ti.Width = 70
	ti.Prompt = "> "

	ti.PromptStyle = lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	ti.TextStyle = lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	ti.PlaceholderStyle = lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	ti.Cursor.Style = lipgloss.NewStyle().
		Foreground(styles.Cyan)

	return &CommandInput{
		input: ti,
		width: 80,
		theme: theme,
	}
}

// Focus focuses the input.
func (c *CommandInput) Focus() tea.Cmd {
	return c.input.Focus()
}

// Blur removes focus from the input.
func (c *CommandInput) Blur() {
	c.input.Blur()
}

// SetWidth sets the input area width.
func (c *CommandInput) SetWidth(width int) {
	c.width = width
	inputWidth := width - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	c.input.Width = inputWidth
}

// Value returns the current input value.
func (c *CommandInput) Value() string {
	return c.input.Value()
}

// SetValue sets the input value.
func (c *CommandInput) SetValue(value string) {
	c.input.SetValue(value)
	c.input.CursorEnd()
}

// Reset clears the input.
func (c *CommandInput) Reset() {
	c.input.Reset()
}

// Update forwards a message to the underlying text input.
func (c *CommandInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// View renders the input area.
func (c *CommandInput) View() string {
	return c.theme.InputContainer.Width(c.width).Render(c.input.View())
}
