// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/voxdraw/internal/diagram"
	"github.com/jeranaias/voxdraw/internal/ui/styles"
	"github.com/jeranaias/voxdraw/internal/voice"
	"github.com/jeranaias/voxdraw/internal/watch"
)

var (
	watchDiagramName string
	watchFromStart   bool
	watchVerbose     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Tail a transcript file and execute appended lines",
	Long: `Watch a file that a speech-to-text tool appends to, executing each
new line as a command. Runs until interrupted.

  whisper-stream --output /tmp/transcript.txt &
  voxdraw watch /tmp/transcript.txt -d myflow`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchDiagramName, "diagram", "d", "", "Load a saved diagram, and save back on exit")
	watchCmd.Flags().BoolVar(&watchFromStart, "from-start", false, "Also execute lines already in the file")
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Development-style log output")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(watchVerbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open diagram database: %w", err)
	}
	defer store.Close()

	canvas := diagram.New()
	if watchDiagramName != "" {
		if err := loadInto(store, watchDiagramName, canvas); err != nil {
			return err
		}
	}
	engine := voice.NewEngine(canvas)

	opts := []watch.Option{
		watch.WithLogger(logger),
		watch.WithDebounce(time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond),
		watch.WithResultFunc(func(transcript, result string) {
			ok := true
			if entry, has := engine.LastEntry(); has {
				ok = entry.OK
			}
			if isStdoutTTY() {
				fmt.Printf("%s\n  %s\n", transcript, styles.RenderStatus(ok, result))
			} else {
				fmt.Printf("%s\t%s\n", transcript, result)
			}
		}),
	}
	if watchFromStart {
		opts = append(opts, watch.FromStart())
	}

	tailer := watch.New(args[0], engine, opts...)
	if err := tailer.Start(); err != nil {
		return fmt.Errorf("watch %s: %w", args[0], err)
	}
	defer tailer.Close()

	fmt.Printf("Watching %s (ctrl+c to stop)\n", args[0])

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	fmt.Println()

	if watchDiagramName != "" {
		if err := store.Save(watchDiagramName, canvas.Export()); err != nil {
			return fmt.Errorf("save diagram %q: %w", watchDiagramName, err)
		}
		fmt.Printf("Saved diagram %q (%d nodes)\n", watchDiagramName, canvas.NodeCount())
	}
	return nil
}
