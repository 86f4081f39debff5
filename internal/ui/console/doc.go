// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package console implements the full-screen terminal console for voxdraw.
//
// The console is a Bubble Tea program: transcripts are typed (or piped in
// from a transcription tool via watch mode), executed against the diagram,
// and the command log and node inventory update live.
package console
