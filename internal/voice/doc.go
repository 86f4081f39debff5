// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice implements the natural-language command engine for the diagram
// editor: an ordered pattern grammar over transcripts, fuzzy entity resolution
// against the canvas, spatial placement for new shapes, and a command executor
// that mutates the diagram and records a bounded command log.
//
// The engine is synchronous and pure of I/O. Every transcript produces exactly
// one human-readable result string and one log entry; failures are reported in
// the result, never raised, so one bad utterance can never abort a session.
package voice
