// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/voxdraw/internal/diagram"
	"github.com/jeranaias/voxdraw/internal/storage"
	"github.com/jeranaias/voxdraw/internal/voice"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the HTTP server.
	DefaultPort = 8790

	// MaxTranscriptLength is the maximum length for a transcript to prevent DoS.
	MaxTranscriptLength = 2000

	// MaxRequestBodySize is the maximum size for request body (64KB for
	// commands; diagram imports get a larger cap).
	MaxRequestBodySize = 64 * 1024

	// MaxDocumentBodySize is the maximum size for an imported diagram (4MB).
	MaxDocumentBodySize = 4 * 1024 * 1024

	// Version is the server version.
	Version = "1.0.0"
)

// ============================================================================
// SERVER STATS
// ============================================================================

// Stats tracks server usage counters.
type Stats struct {
	TotalRequests  int64
	CommandsOK     int64
	CommandsFailed int64
	StartTime      time.Time
}

// statsCounter holds the live atomic counters behind Stats.
type statsCounter struct {
	totalRequests  atomic.Int64
	commandsOK     atomic.Int64
	commandsFailed atomic.Int64
	startTime      time.Time
}

func newStatsCounter() *statsCounter {
	return &statsCounter{startTime: time.Now()}
}

func (s *statsCounter) recordCommand(ok bool) {
	s.totalRequests.Add(1)
	if ok {
		s.commandsOK.Add(1)
	} else {
		s.commandsFailed.Add(1)
	}
}

func (s *statsCounter) snapshot() Stats {
	return Stats{
		TotalRequests:  s.totalRequests.Load(),
		CommandsOK:     s.commandsOK.Load(),
		CommandsFailed: s.commandsFailed.Load(),
		StartTime:      s.startTime,
	}
}

// ============================================================================
// SERVER
// ============================================================================

// Server exposes the command engine and diagram state over HTTP.
type Server struct {
	port    int
	router  *http.ServeMux
	server  *http.Server
	logger  *zap.Logger
	limiter *RateLimiter

	engine  *voice.Engine
	canvas  *diagram.Diagram
	store   *storage.Store
	stats   *statsCounter
	auth    *AuthConfig
	cors    *CORSConfig

	// mu serializes engine and canvas access; the engine itself is not safe
	// for concurrent use.
	mu sync.Mutex
}

// New creates a Server over the given canvas. If port is 0, DefaultPort is
// used. The store is optional; save/load endpoints return 503 without one.
func New(port int, canvas *diagram.Diagram, store *storage.Store, logger *zap.Logger) *Server {
	if port == 0 {
		port = DefaultPort
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		port:    port,
		router:  http.NewServeMux(),
		logger:  logger,
		limiter: DefaultRateLimiter(),
		engine:  voice.NewEngine(canvas),
		canvas:  canvas,
		store:   store,
		stats:   newStatsCounter(),
		auth:    DefaultAuthConfig(),
		cors:    DefaultCORSConfig(),
	}

	s.setupRoutes()
	return s
}

// WithAuth sets the authentication configuration.
func (s *Server) WithAuth(config *AuthConfig) *Server {
	s.auth = config
	return s
}

// WithRateLimiter sets a custom rate limiter.
func (s *Server) WithRateLimiter(limiter *RateLimiter) *Server {
	s.limiter = limiter
	return s
}

// Port returns the server port.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the full middleware-wrapped handler, used directly by tests.
func (s *Server) Handler() http.Handler {
	handler := Chain(
		RecoveryMiddleware(s.logger),
		SecurityHeadersMiddleware(),
		CORSMiddleware(s.cors),
		LoggingMiddleware(s.logger),
		RateLimitMiddleware(s.limiter, s.logger),
	)(s.router)

	if s.auth != nil && s.auth.Enabled {
		handler = AuthMiddleware(s.auth, s.logger)(handler)
	}
	return handler
}

// ============================================================================
// ROUTES
// ============================================================================

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /v1/commands", s.handleCommand)
	s.router.HandleFunc("GET /v1/history", s.handleHistory)
	s.router.HandleFunc("GET /v1/nodes", s.handleNodes)
	s.router.HandleFunc("GET /v1/document", s.handleExport)
	s.router.HandleFunc("PUT /v1/document", s.handleImport)

	s.router.HandleFunc("GET /v1/diagrams", s.handleDiagramList)
	s.router.HandleFunc("POST /v1/diagrams/{name}", s.handleDiagramSave)
	s.router.HandleFunc("GET /v1/diagrams/{name}", s.handleDiagramLoad)
	s.router.HandleFunc("DELETE /v1/diagrams/{name}", s.handleDiagramDelete)

	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /stats", s.handleStats)
}

// ============================================================================
// REQUEST/RESPONSE TYPES
// ============================================================================

// CommandRequest is a transcript submission.
type CommandRequest struct {
	Transcript string `json:"transcript"`
}

// CommandResponse is the outcome of one executed transcript.
type CommandResponse struct {
	Result string `json:"result"`
	OK     bool   `json:"ok"`
}

// HistoryResponse wraps the retained command log.
type HistoryResponse struct {
	Entries []voice.LogEntry `json:"entries"`
}

// NodesResponse wraps the node inventory.
type NodesResponse struct {
	Nodes []voice.NodeSummary `json:"nodes"`
}

// HealthResponse reports server health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	NodeCount     int    `json:"node_count"`
	StorageStatus string `json:"storage_status"`
}

// StatsResponse reports usage counters.
type StatsResponse struct {
	TotalRequests  int64 `json:"total_requests"`
	CommandsOK     int64 `json:"commands_ok"`
	CommandsFailed int64 `json:"commands_failed"`
	UptimeSeconds  int64 `json:"uptime_seconds"`
}

// DiagramInfo describes one saved diagram in a list response.
type DiagramInfo struct {
	Name      string    `json:"name"`
	NodeCount int       `json:"node_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ============================================================================
// COMMAND HANDLERS
// ============================================================================

// handleCommand handles POST /v1/commands.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			s.writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		s.logger.Info("invalid request body", zap.Error(err))
		s.writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if strings.TrimSpace(req.Transcript) == "" {
		s.writeError(w, http.StatusBadRequest, "Request must contain a transcript")
		return
	}
	if len(req.Transcript) > MaxTranscriptLength {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Transcript exceeds maximum length of %d", MaxTranscriptLength))
		return
	}

	s.mu.Lock()
	result := s.engine.Execute(req.Transcript)
	entry, _ := s.engine.LastEntry()
	s.mu.Unlock()

	s.stats.recordCommand(entry.OK)
	s.logger.Info("command executed",
		zap.String("transcript", req.Transcript),
		zap.Bool("ok", entry.OK),
	)

	s.writeJSON(w, http.StatusOK, CommandResponse{Result: result, OK: entry.OK})
}

// handleHistory handles GET /v1/history.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	entries := s.engine.History()
	s.mu.Unlock()

	if entries == nil {
		entries = []voice.LogEntry{}
	}
	s.writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries})
}

// handleNodes handles GET /v1/nodes.
func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	nodes := s.engine.NodeInventory()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, NodesResponse{Nodes: nodes})
}

// ============================================================================
// DOCUMENT HANDLERS
// ============================================================================

// handleExport handles GET /v1/document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc := s.canvas.Export()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, doc)
}

// handleImport handles PUT /v1/document, replacing the live diagram.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxDocumentBodySize)

	var doc diagram.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.logger.Info("invalid document body", zap.Error(err))
		s.writeError(w, http.StatusBadRequest, "Invalid document format")
		return
	}

	s.mu.Lock()
	err := s.canvas.Import(&doc)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Document rejected: %v", err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"imported": len(doc.Nodes)})
}

// ============================================================================
// SAVED DIAGRAM HANDLERS
// ============================================================================

// requireStore returns the store or writes a 503.
func (s *Server) requireStore(w http.ResponseWriter) *storage.Store {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Storage not configured")
		return nil
	}
	return s.store
}

// handleDiagramList handles GET /v1/diagrams.
func (s *Server) handleDiagramList(w http.ResponseWriter, r *http.Request) {
	store := s.requireStore(w)
	if store == nil {
		return
	}

	infos, err := store.List()
	if err != nil {
		s.logger.Error("list diagrams", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to list diagrams")
		return
	}

	out := make([]DiagramInfo, len(infos))
	for i, info := range infos {
		out[i] = DiagramInfo{Name: info.Name, NodeCount: info.NodeCount, UpdatedAt: info.UpdatedAt}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"diagrams": out})
}

// handleDiagramSave handles POST /v1/diagrams/{name}, saving the live diagram.
func (s *Server) handleDiagramSave(w http.ResponseWriter, r *http.Request) {
	store := s.requireStore(w)
	if store == nil {
		return
	}
	name := r.PathValue("name")

	s.mu.Lock()
	doc := s.canvas.Export()
	s.mu.Unlock()

	if err := store.Save(name, doc); err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			s.writeError(w, http.StatusBadRequest, "Invalid diagram name")
			return
		}
		s.logger.Error("save diagram", zap.String("name", name), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to save diagram")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"saved": name, "nodes": len(doc.Nodes)})
}

// handleDiagramLoad handles GET /v1/diagrams/{name}, replacing the live
// diagram with the saved one.
func (s *Server) handleDiagramLoad(w http.ResponseWriter, r *http.Request) {
	store := s.requireStore(w)
	if store == nil {
		return
	}
	name := r.PathValue("name")

	doc, err := store.Load(name)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			s.writeError(w, http.StatusNotFound, "Diagram not found")
		case errors.Is(err, storage.ErrInvalidName):
			s.writeError(w, http.StatusBadRequest, "Invalid diagram name")
		default:
			s.logger.Error("load diagram", zap.String("name", name), zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "Failed to load diagram")
		}
		return
	}

	s.mu.Lock()
	err = s.canvas.Import(doc)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Saved diagram rejected: %v", err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"loaded": name, "nodes": len(doc.Nodes)})
}

// handleDiagramDelete handles DELETE /v1/diagrams/{name}.
func (s *Server) handleDiagramDelete(w http.ResponseWriter, r *http.Request) {
	store := s.requireStore(w)
	if store == nil {
		return
	}
	name := r.PathValue("name")

	if err := store.Delete(name); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			s.writeError(w, http.StatusNotFound, "Diagram not found")
		case errors.Is(err, storage.ErrInvalidName):
			s.writeError(w, http.StatusBadRequest, "Invalid diagram name")
		default:
			s.logger.Error("delete diagram", zap.String("name", name), zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "Failed to delete diagram")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": name})
}

// ============================================================================
// HEALTH AND STATS
// ============================================================================

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	nodeCount := s.canvas.NodeCount()
	s.mu.Unlock()

	health := HealthResponse{
		Status:    "ok",
		Version:   Version,
		NodeCount: nodeCount,
	}
	if s.store != nil {
		health.StorageStatus = "ok"
	} else {
		health.StorageStatus = "not_configured"
	}

	s.writeJSON(w, http.StatusOK, health)
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.stats.snapshot()
	s.writeJSON(w, http.StatusOK, StatsResponse{
		TotalRequests:  stats.TotalRequests,
		CommandsOK:     stats.CommandsOK,
		CommandsFailed: stats.CommandsFailed,
		UptimeSeconds:  int64(time.Since(stats.StartTime).Seconds()),
	})
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Start begins serving on 127.0.0.1:port. Blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("server starting", zap.String("addr", addr), zap.String("version", Version))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": message,
			"code":    status,
		},
	})
}
