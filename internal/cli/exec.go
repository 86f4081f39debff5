// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/voxdraw/internal/diagram"
	"github.com/jeranaias/voxdraw/internal/voice"
)

var execDiagramName string

var execCmd = &cobra.Command{
	Use:   "exec [transcript...]",
	Short: "Execute transcripts non-interactively",
	Long: `Execute one or more transcripts and print each result. With no
arguments, transcripts are read from stdin, one per line.

Examples:
  voxdraw exec "add a box called login" "add a diamond called valid below login"
  cat commands.txt | voxdraw exec -d myflow`,
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringVarP(&execDiagramName, "diagram", "d", "", "Load a saved diagram, and save back afterwards")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open diagram database: %w", err)
	}
	defer store.Close()

	canvas := diagram.New()
	if execDiagramName != "" {
		if err := loadInto(store, execDiagramName, canvas); err != nil {
			return err
		}
	}
	engine := voice.NewEngine(canvas)

	transcripts := args
	if len(transcripts) == 0 {
		if isStdinTTY() {
			return fmt.Errorf("no transcripts given and stdin is a terminal")
		}
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				transcripts = append(transcripts, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	failed := 0
	for _, transcript := range transcripts {
		result := engine.Execute(transcript)
		if entry, ok := engine.LastEntry(); ok && !entry.OK {
			failed++
		}
		fmt.Println(result)
	}

	if execDiagramName != "" {
		if err := store.Save(execDiagramName, canvas.Export()); err != nil {
			return fmt.Errorf("save diagram %q: %w", execDiagramName, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d commands failed", failed, len(transcripts))
	}
	return nil
}
