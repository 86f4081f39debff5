// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the voxdraw
// console: the command input, the scrolling command history, and the node
// inventory panel.
package components
