// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/voxdraw/internal/diagram"
	"github.com/jeranaias/voxdraw/internal/storage"
	"github.com/jeranaias/voxdraw/internal/ui/console"
	"github.com/jeranaias/voxdraw/internal/voice"
	"github.com/jeranaias/voxdraw/internal/watch"
)

// programExecutor forwards tailed transcript lines to the console instead of
// executing them directly, so the UI refreshes through its own update loop.
type programExecutor struct {
	program *tea.Program
}

func (p programExecutor) Execute(transcript string) string {
	p.program.Send(console.TranscriptMsg{Transcript: transcript})
	return ""
}

var (
	tuiDiagramName string
	tuiWatchFile   string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the full-screen console",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiDiagramName, "diagram", "d", "", "Load a saved diagram, and save back on exit")
	tuiCmd.Flags().StringVarP(&tuiWatchFile, "watch", "w", "", "Also tail a transcript file into the console")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open diagram database: %w", err)
	}
	defer store.Close()

	canvas := diagram.New()
	name := tuiDiagramName
	if name == "" {
		name = cfg.Storage.AutosaveName
	}
	if name != "" {
		if err := loadInto(store, name, canvas); err != nil {
			return err
		}
	}

	engine := voice.NewEngine(canvas)
	model := console.New(engine, cfg.UI.ShowInventory)
	program := tea.NewProgram(model, tea.WithAltScreen())

	// Feed watched transcript lines into the running program. The console
	// executes them on its own update loop.
	if tuiWatchFile != "" {
		tailer := watch.New(tuiWatchFile, programExecutor{program})
		if err := tailer.Start(); err != nil {
			return fmt.Errorf("watch %s: %w", tuiWatchFile, err)
		}
		defer tailer.Close()
	}

	if _, err := program.Run(); err != nil {
		return err
	}

	if name != "" {
		if err := store.Save(name, canvas.Export()); err != nil {
			return fmt.Errorf("save diagram %q: %w", name, err)
		}
		fmt.Printf("Saved diagram %q (%d nodes)\n", name, canvas.NodeCount())
	}
	return nil
}

// loadInto loads a saved diagram into the canvas; a missing name starts fresh.
func loadInto(store *storage.Store, name string, canvas *diagram.Diagram) error {
	doc, err := store.Load(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load diagram %q: %w", name, err)
	}
	return canvas.Import(doc)
}
