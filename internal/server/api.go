package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/wethinkt/go-molty/internal/catalog"
	"github.com/wethinkt/go-molty/internal/dashlog"
	"github.com/wethinkt/go-molty/internal/version"
)

// HealthResponse is returned by /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// writeJSON writes a JSON response with an explicit Content-Length. Invalid
// UTF-8 from log lines is replaced with U+FFFD.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		dashlog.Log.Error("Failed to encode response", "error", err)
		http.Error(w, `{"error":"encode_failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	w.Write(body)
}

// handleStatus returns the current activity snapshot. The poll consumes new
// log bytes, so every request advances the shared cursor.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	p := s.sources.Tracker.Poll()
	recordPoll(p)
	writeJSON(w, http.StatusOK, p.Snapshot)
}

// handleProjects returns the parsed project journal.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.sources.Journal.Projects()
	if err != nil {
		dashlog.Log.Warn("Failed to read project journal", "path", s.sources.Journal.Path, "error", err)
		projects = []catalog.Project{}
	}
	projectsListed.Set(float64(len(projects)))
	writeJSON(w, http.StatusOK, projects)
}

// handleStats returns aggregate commit and line counts.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap, cached := s.sources.Stats.Lookup(context.WithoutCancel(r.Context()))
	recordStatsLookup(cached, time.Since(start))
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: version.Get()})
}
