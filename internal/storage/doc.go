// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists diagrams to a local SQLite database.
//
// Diagrams are stored by name as JSON documents. The store keeps one row
// per name; saving under an existing name replaces the previous version.
package storage
