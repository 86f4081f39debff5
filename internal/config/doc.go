// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for voxdraw.
//
// Configuration is TOML, loaded from ~/.voxdraw/config.toml with built-in
// defaults, environment variable overrides (VOXDRAW_*), and validation that
// clamps out-of-range values instead of failing startup.
package config
