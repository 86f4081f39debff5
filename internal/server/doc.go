// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the command engine over a local HTTP API.
//
// Endpoints:
//   - POST   /v1/commands        - Execute one transcript against the diagram
//   - GET    /v1/history         - Retained command log
//   - GET    /v1/nodes           - Node inventory
//   - GET    /v1/document        - Export the live diagram as JSON
//   - PUT    /v1/document        - Replace the live diagram
//   - GET    /v1/diagrams        - List saved diagrams
//   - POST   /v1/diagrams/{name} - Save the live diagram
//   - GET    /v1/diagrams/{name} - Load a saved diagram
//   - DELETE /v1/diagrams/{name} - Delete a saved diagram
//   - GET    /health             - Health check
//   - GET    /stats              - Usage counters
//
// The middleware stack provides bearer token authentication with
// constant-time comparison, an IP allowlist, CORS for browser canvases,
// per-IP token-bucket rate limiting, security headers, request logging,
// and panic recovery.
package server
