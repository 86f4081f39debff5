// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diagram holds the mutable diagram document: shape nodes, connectors,
// selection, and a bounded undo/redo history.
//
// The package exposes an operation-per-mutation surface (create, move, resize,
// restyle, delete, table edits, connect, duplicate, undo/redo, select) consumed
// by the voice command engine and by the HTTP/TUI shells. It performs no I/O;
// persistence lives in internal/storage.
package diagram
