// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/jeranaias/voxdraw/internal/diagram"
	"github.com/jeranaias/voxdraw/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "diagrams.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(0, diagram.New(), store, zap.NewNop())
}

func postCommand(t *testing.T, handler http.Handler, transcript string) CommandResponse {
	t.Helper()
	body, _ := json.Marshal(CommandRequest{Transcript: transcript})
	req := httptest.NewRequest(http.MethodPost, "/v1/commands", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/commands status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp CommandResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestCommandEndpoint(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	resp := postCommand(t, handler, "add a box called login")
	if !resp.OK {
		t.Errorf("command failed: %q", resp.Result)
	}
	if !strings.Contains(resp.Result, "Login") {
		t.Errorf("result = %q, want mention of Login", resp.Result)
	}

	resp = postCommand(t, handler, "delete the frobnicator")
	if resp.OK {
		t.Errorf("expected failure for unknown target, got %q", resp.Result)
	}
}

func TestCommandEndpointValidation(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty transcript", `{"transcript":""}`, http.StatusBadRequest},
		{"malformed json", `{not json`, http.StatusBadRequest},
		{"oversized transcript", `{"transcript":"` + strings.Repeat("a", MaxTranscriptLength+1) + `"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/commands", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHistoryAndNodes(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	postCommand(t, handler, "add a box called login")
	postCommand(t, handler, "add a diamond called valid")

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/history status = %d", rec.Code)
	}
	var hist HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatal(err)
	}
	if len(hist.Entries) != 2 {
		t.Errorf("history has %d entries, want 2", len(hist.Entries))
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/nodes", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var nodes NodesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &nodes); err != nil {
		t.Fatal(err)
	}
	if len(nodes.Nodes) != 2 {
		t.Errorf("inventory has %d nodes, want 2", len(nodes.Nodes))
	}
}

func TestDocumentExportImport(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	postCommand(t, handler, "add a box called login")

	req := httptest.NewRequest(http.MethodGet, "/v1/document", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/document status = %d", rec.Code)
	}
	exported := rec.Body.Bytes()

	// Clear, then restore via import.
	postCommand(t, handler, "delete everything")

	req = httptest.NewRequest(http.MethodPut, "/v1/document", bytes.NewReader(exported))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /v1/document status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/nodes", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var nodes NodesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &nodes); err != nil {
		t.Fatal(err)
	}
	if len(nodes.Nodes) != 1 {
		t.Errorf("inventory has %d nodes after import, want 1", len(nodes.Nodes))
	}
}

func TestDiagramSaveLoadDelete(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	postCommand(t, handler, "add a box called login")

	req := httptest.NewRequest(http.MethodPost, "/v1/diagrams/flow", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", rec.Code, rec.Body.String())
	}

	postCommand(t, handler, "delete everything")

	req = httptest.NewRequest(http.MethodGet, "/v1/diagrams/flow", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("load status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/nodes", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var nodes NodesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &nodes); err != nil {
		t.Fatal(err)
	}
	if len(nodes.Nodes) != 1 {
		t.Errorf("inventory has %d nodes after load, want 1", len(nodes.Nodes))
	}

	req = httptest.NewRequest(http.MethodDelete, "/v1/diagrams/flow", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/diagrams/flow", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("load after delete status = %d, want 404", rec.Code)
	}
}

func TestHealthAndStats(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	var health HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "ok" {
		t.Errorf("health status = %q, want ok", health.Status)
	}
	if health.StorageStatus != "ok" {
		t.Errorf("storage status = %q, want ok", health.StorageStatus)
	}

	postCommand(t, handler, "add a box called login")
	postCommand(t, handler, "delete the frobnicator")

	req = httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var stats StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.CommandsOK != 1 || stats.CommandsFailed != 1 {
		t.Errorf("stats ok=%d failed=%d, want 1/1", stats.CommandsOK, stats.CommandsFailed)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t)
	srv.WithAuth(&AuthConfig{Enabled: true, BearerToken: "sekrit"})
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("good token status = %d, want 200", rec.Code)
	}
}

func TestValidateBearerToken(t *testing.T) {
	tests := []struct {
		token    string
		expected string
		want     bool
	}{
		{"abc", "abc", true},
		{"abc", "abd", false},
		{"", "abc", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := ValidateBearerToken(tt.token, tt.expected); got != tt.want {
			t.Errorf("ValidateBearerToken(%q, %q) = %v, want %v", tt.token, tt.expected, got, tt.want)
		}
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	srv := newTestServer(t)
	srv.WithRateLimiter(NewRateLimiter(1, 2))
	handler := srv.Handler()

	var limited bool
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Error("burst of requests was never rate limited")
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestCORSPreflightAllowed(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/v1/commands", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"direct", "203.0.113.5:1234", "", "203.0.113.5"},
		{"untrusted proxy ignored", "203.0.113.5:1234", "10.1.1.1", "203.0.113.5"},
		{"trusted proxy honored", "127.0.0.1:1234", "203.0.113.7", "203.0.113.7"},
		{"trusted proxy bad header", "127.0.0.1:1234", "not-an-ip", "127.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
