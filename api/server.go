// Package api exposes the pipeline's control-state snapshot and session
// history over HTTP for external consumers that poll rather than embed the
// pipeline.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/neuroarcade/spikestream/db"
	"github.com/neuroarcade/spikestream/internal/pipeline"
)

// Status describes the running pipeline for operators.
type Status struct {
	Version    string `json:"version"`
	StreamType string `json:"stream_type"`
	ModelType  string `json:"model_type"`
	SessionID  string `json:"session_id"`
	WindowLen  int    `json:"window_len"`
	BufferSize int    `json:"buffer_size"`
	Degraded   bool   `json:"degraded"`
}

// StatusFunc reports the live pipeline status.
type StatusFunc func() Status

type Server struct {
	controls *pipeline.ControlState
	db       *db.DB
	status   StatusFunc
}

func NewServer(controls *pipeline.ControlState, database *db.DB, status StatusFunc) *Server {
	return &Server{
		controls: controls,
		db:       database,
		status:   status,
	}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/controls", s.controlsHandler)
	mux.HandleFunc("/controls/consume", s.consumeHandler)
	mux.HandleFunc("/status", s.statusHandler)
	mux.HandleFunc("/labels", s.listLabels)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Welcome to the Spikestream Server!"))
}

// controlsHandler returns the control flags without clearing them.
func (s *Server) controlsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.controls.Snapshot())
}

// consumeHandler returns the control flags and clears them, implementing
// the consumer side of the control contract for HTTP clients.
func (s *Server) consumeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.controls.Consume())
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.status())
}

func (s *Server) listLabels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := s.db.Labels(100)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve labels: %v", err), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []db.LabelRecord{}
	}
	writeJSON(w, records)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
