// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the voxdraw command-line interface.
//
// Commands:
//   - voxdraw            - Full-screen console (same as "voxdraw tui")
//   - voxdraw repl       - Line-oriented REPL with history
//   - voxdraw exec       - Execute transcripts non-interactively
//   - voxdraw serve      - HTTP API server
//   - voxdraw watch      - Tail a transcript file
//   - voxdraw list       - List saved diagrams
//   - voxdraw delete     - Delete a saved diagram
//   - voxdraw export     - Export a saved diagram as JSON
//   - voxdraw import     - Import a diagram JSON file
//   - voxdraw version    - Show version information
package cli
