// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/voxdraw/internal/diagram"
	"github.com/jeranaias/voxdraw/internal/voice"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	engine := voice.NewEngine(diagram.New())
	m := New(engine, true)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func typeAndSubmit(m *Model, transcript string) tea.Cmd {
	m.input.SetValue(transcript)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestSubmitExecutesCommand(t *testing.T) {
	m := newTestModel(t)

	typeAndSubmit(m, "add a box called login")

	entries := m.engine.History()
	if len(entries) != 1 {
		t.Fatalf("history has %d entries, want 1", len(entries))
	}
	if !entries[0].OK {
		t.Errorf("command failed: %q", entries[0].Result)
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared after submit: %q", m.input.Value())
	}
}

func TestTranscriptMsgExecutes(t *testing.T) {
	m := newTestModel(t)

	m.Update(TranscriptMsg{Transcript: "add a box called login"})

	if len(m.engine.History()) != 1 {
		t.Fatalf("history has %d entries, want 1", len(m.engine.History()))
	}
}

func TestEmptySubmitIsIgnored(t *testing.T) {
	m := newTestModel(t)
	typeAndSubmit(m, "   ")
	if len(m.engine.History()) != 0 {
		t.Errorf("blank input was executed")
	}
}

func TestExitWordQuits(t *testing.T) {
	m := newTestModel(t)
	cmd := typeAndSubmit(m, "exit")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestRecall(t *testing.T) {
	m := newTestModel(t)
	typeAndSubmit(m, "add a box called login")
	typeAndSubmit(m, "add a diamond called valid")

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := m.input.Value(); got != "add a diamond called valid" {
		t.Errorf("first recall = %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := m.input.Value(); got != "add a box called login" {
		t.Errorf("second recall = %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.input.Value(); got != "" {
		t.Errorf("recall past newest should clear, got %q", got)
	}
}

func TestUndoKeyBinding(t *testing.T) {
	m := newTestModel(t)
	typeAndSubmit(m, "add a box called login")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})

	entries := m.engine.History()
	last := entries[len(entries)-1]
	if last.Transcript != "undo" {
		t.Errorf("last transcript = %q, want undo", last.Transcript)
	}
	if len(m.engine.NodeInventory()) != 0 {
		t.Errorf("node still present after undo")
	}
}

func TestViewRendersPanes(t *testing.T) {
	m := newTestModel(t)
	typeAndSubmit(m, "add a box called login")

	view := m.View()
	if !strings.Contains(view, "voxdraw") {
		t.Error("view missing header")
	}
	if !strings.Contains(view, "Login") {
		t.Error("view missing created node")
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	if !m.showHelp {
		t.Error("help not shown after toggle")
	}
	// Running a command dismisses help.
	m.Update(TranscriptMsg{Transcript: "add a box called login"})
	if m.showHelp {
		t.Error("help still shown after command")
	}
}
