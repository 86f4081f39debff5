// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/voxdraw/internal/diagram"
	"github.com/jeranaias/voxdraw/internal/util"
)

// =============================================================================
// LIST
// =============================================================================

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved diagrams",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		infos, err := store.List()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No saved diagrams.")
			return nil
		}

		fmt.Printf("%-30s %6s  %s\n", "NAME", "NODES", "UPDATED")
		for _, info := range infos {
			fmt.Printf("%-30s %6d  %s\n",
				util.TruncateRunes(info.Name, 30),
				info.NodeCount,
				info.UpdatedAt.Format("2006-01-02 15:04"),
			)
		}
		return nil
	},
}

// =============================================================================
// DELETE
// =============================================================================

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved diagram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted diagram %q\n", args[0])
		return nil
	},
}

// =============================================================================
// EXPORT
// =============================================================================

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export a saved diagram as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		doc, err := store.Load(args[0])
		if err != nil {
			return err
		}
		data, err := doc.Marshal()
		if err != nil {
			return err
		}

		if exportOutput == "" || exportOutput == "-" {
			os.Stdout.Write(data)
			if len(data) > 0 && data[len(data)-1] != '\n' {
				fmt.Println()
			}
			return nil
		}
		if err := util.AtomicWriteFile(exportOutput, data, 0644); err != nil {
			return err
		}
		fmt.Printf("Exported %q to %s\n", args[0], exportOutput)
		return nil
	},
}

// =============================================================================
// IMPORT
// =============================================================================

var importName string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a diagram JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := diagram.UnmarshalDocument(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		// Validate through a live diagram before saving.
		canvas := diagram.New()
		if err := canvas.Import(doc); err != nil {
			return fmt.Errorf("document rejected: %w", err)
		}

		name := importName
		if name == "" {
			name = trimExt(args[0])
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Save(name, doc); err != nil {
			return err
		}
		fmt.Printf("Imported %q (%d nodes)\n", name, len(doc.Nodes))
		return nil
	},
}

// trimExt returns the file base name without its extension.
func trimExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	importCmd.Flags().StringVarP(&importName, "name", "n", "", "Name to save under (default: file base name)")
	rootCmd.AddCommand(listCmd, deleteCmd, exportCmd, importCmd)
}
