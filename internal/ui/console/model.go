// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/voxdraw/internal/ui/components"
	"github.com/jeranaias/voxdraw/internal/ui/styles"
	"github.com/jeranaias/voxdraw/internal/util"
	"github.com/jeranaias/voxdraw/internal/voice"
)

// =============================================================================
// MESSAGES
// =============================================================================

// TranscriptMsg delivers an externally sourced transcript (watch mode) into
// the running console.
type TranscriptMsg struct {
	Transcript string
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the console.
type Model struct {
	engine *voice.Engine
	theme  *styles.Theme
	keys   keyMap

	input     *components.CommandInput
	history   *components.History
	inventory *components.Inventory

	width  int
	height int

	showInventory bool
	showHelp      bool
	helpView      string

	// Typed-command recall, separate from the engine's log.
	recall    []string
	recallPos int

	lastOK     bool
	lastResult string
	ran        int
}

// New creates a console over the given engine.
func New(engine *voice.Engine, showInventory bool) *Model {
	theme := styles.NewTheme()
	m := &Model{
		engine:        engine,
		theme:         theme,
		keys:          defaultKeyMap(),
		input:         components.NewCommandInput(theme),
		history:       components.NewHistory(theme),
		inventory:     components.NewInventory(theme),
		showInventory: showInventory,
		lastOK:        true,
	}
	m.history.SetEntries(engine.History())
	m.inventory.SetNodes(engine.NodeInventory())
	return m
}

// Init focuses the input.
func (m *Model) Init() tea.Cmd {
	return m.input.Focus()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.layout()
		return m, nil

	case TranscriptMsg:
		m.run(msg.Transcript)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Undo):
			m.run("undo")
			return m, nil

		case key.Matches(msg, m.keys.Redo):
			m.run("redo")
			return m, nil

		case key.Matches(msg, m.keys.PrevLine):
			m.recallPrev()
			return m, nil

		case key.Matches(msg, m.keys.NextLine):
			m.recallNext()
			return m, nil

		case key.Matches(msg, m.keys.Submit):
			transcript := strings.TrimSpace(m.input.Value())
			if transcript == "" {
				return m, nil
			}
			if transcript == "quit" || transcript == "exit" {
				return m, tea.Quit
			}
			m.input.Reset()
			m.recall = append(m.recall, transcript)
			m.recallPos = len(m.recall)
			m.run(transcript)
			return m, nil
		}
	}

	cmd := m.input.Update(msg)
	return m, cmd
}

// run executes one transcript and refreshes the panes.
func (m *Model) run(transcript string) {
	result := m.engine.Execute(transcript)
	if entry, ok := m.engine.LastEntry(); ok {
		m.lastOK = entry.OK
	}
	m.lastResult = result
	m.ran++

	if m.showHelp {
		m.showHelp = false
	}
	m.history.SetEntries(m.engine.History())
	m.inventory.SetNodes(m.engine.NodeInventory())
}

// recallPrev loads the previous typed command into the input.
func (m *Model) recallPrev() {
	if len(m.recall) == 0 || m.recallPos == 0 {
		return
	}
	m.recallPos--
	m.input.SetValue(m.recall[m.recallPos])
}

// recallNext loads the next typed command, or clears past the newest.
func (m *Model) recallNext() {
	if m.recallPos >= len(m.recall) {
		return
	}
	m.recallPos++
	if m.recallPos == len(m.recall) {
		m.input.Reset()
		return
	}
	m.input.SetValue(m.recall[m.recallPos])
}

// layout distributes space between the panes.
func (m *Model) layout() {
	inventoryWidth := 0
	if m.showInventory {
		inventoryWidth = 28
		if m.width < 80 {
			inventoryWidth = 0
		}
	}

	// Header, input (3 with border), status bar.
	contentHeight := m.height - 5
	if contentHeight < 3 {
		contentHeight = 3
	}

	m.history.SetSize(m.width-inventoryWidth-2, contentHeight)
	m.inventory.SetSize(inventoryWidth, contentHeight)
	m.input.SetWidth(m.width - 2)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the console.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	header := m.theme.Header.Width(m.width).Render(
		m.theme.HeaderTitle.Render("voxdraw") + "  " +
			m.theme.HeaderSubtitle.Render("voice commands for diagrams"),
	)

	var body string
	if m.showHelp {
		body = m.helpOverlay()
	} else if m.showInventory && m.width >= 80 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.history.View(), m.inventory.View())
	} else {
		body = m.history.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		m.input.View(),
		m.statusBar(),
	)
}

// statusBar renders the bottom bar with last result and shortcuts.
func (m *Model) statusBar() string {
	var status string
	if m.ran == 0 {
		status = m.theme.ShortcutDesc.Render("ready")
	} else {
		status = styles.RenderStatus(m.lastOK, util.FirstLine(m.lastResult))
	}

	shortcuts := strings.Join([]string{
		m.theme.ShortcutKey.Render("ctrl+h") + m.theme.ShortcutDesc.Render(" help"),
		m.theme.ShortcutKey.Render("ctrl+z") + m.theme.ShortcutDesc.Render(" undo"),
		m.theme.ShortcutKey.Render("ctrl+c") + m.theme.ShortcutDesc.Render(" quit"),
	}, "  ")

	gap := m.width - lipgloss.Width(status) - lipgloss.Width(shortcuts) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(
		status + strings.Repeat(" ", gap) + shortcuts,
	)
}

// helpOverlay renders the grammar reference, markdown-formatted via glamour.
func (m *Model) helpOverlay() string {
	if m.helpView == "" {
		m.helpView = renderHelp(m.width - 8)
	}
	return m.theme.HelpBox.Render(m.helpView)
}

// renderHelp renders the help markdown for terminal display.
func renderHelp(wrap int) string {
	if wrap < 40 {
		wrap = 40
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}

// helpMarkdown is the grammar reference shown by the help overlay.
const helpMarkdown = `# Commands

## Creating
- **add a box called login** — shapes: box, rounded box, diamond, table, text, badge
- **add a diamond called valid below login**
- **duplicate** — copies the selection

## Connecting
- **connect login to valid**
- **label the connector from login to valid as yes**

## Moving and sizing
- **move valid below login** / **move login right 60**
- **make login bigger** / **set login width to 300**

## Styling
- **make login blue** / **set login fill to #ff0000**
- **make login bold** / **set login font size to 18**

## Tables
- **add a row to orders** / **add a column called status to orders**
- **set row 2 column 3 of orders to shipped**

## Housekeeping
- **rename login to sign in** / **delete login** / **delete everything**
- **select login** / **undo** / **redo** / **list everything**
`
