// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/voxdraw/internal/config"
	"github.com/jeranaias/voxdraw/internal/diagram"
	"github.com/jeranaias/voxdraw/internal/ui/styles"
	"github.com/jeranaias/voxdraw/internal/voice"
)

var replDiagramName string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Line-oriented REPL with history",
	Long: `Read commands one line at a time with readline-style editing and
persistent input history. Useful over SSH or when the full-screen console
is too heavy.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	replCmd.Flags().StringVarP(&replDiagramName, "diagram", "d", "", "Load a saved diagram, and save back on exit")
	rootCmd.AddCommand(replCmd)
}

// replInput wraps liner with persistent history.
type replInput struct {
	line        *liner.State
	historyFile string
}

func newREPLInput() *replInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	in := &replInput{
		line:        line,
		historyFile: filepath.Join(dir, "repl_history"),
	}
	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
	return in
}

func (in *replInput) read(prompt string) (string, error) {
	input, err := in.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		in.line.AppendHistory(input)
	}
	return input, nil
}

func (in *replInput) close() {
	if err := os.MkdirAll(filepath.Dir(in.historyFile), 0755); err == nil {
		if f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			in.line.WriteHistory(f)
			f.Close()
		}
	}
	in.line.Close()
}

func runREPL(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open diagram database: %w", err)
	}
	defer store.Close()

	canvas := diagram.New()
	if replDiagramName != "" {
		if err := loadInto(store, replDiagramName, canvas); err != nil {
			return err
		}
	}
	engine := voice.NewEngine(canvas)

	input := newREPLInput()
	defer input.close()

	fmt.Println("voxdraw repl. Type commands, \"help\" for the grammar, \"exit\" to leave.")

	for {
		line, err := input.read("voxdraw> ")
		if err != nil {
			// Ctrl+C or Ctrl+D exits gracefully.
			fmt.Println()
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		result := engine.Execute(line)
		ok := true
		if entry, has := engine.LastEntry(); has {
			ok = entry.OK
		}
		if isStdoutTTY() {
			fmt.Println(styles.RenderStatus(ok, result))
		} else {
			fmt.Println(result)
		}
	}

	if replDiagramName != "" {
		if err := store.Save(replDiagramName, canvas.Export()); err != nil {
			return fmt.Errorf("save diagram %q: %w", replDiagramName, err)
		}
		fmt.Printf("Saved diagram %q (%d nodes)\n", replDiagramName, canvas.NodeCount())
	}
	return nil
}
