// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch tails a transcript file and feeds appended lines to the
// command engine.
//
// This is the integration point for external speech-to-text tools: they
// append one recognized utterance per line to a file, and the tailer
// executes each line as a command. File truncation resets the read
// position, so transcription tools may rotate the file freely.
package watch
