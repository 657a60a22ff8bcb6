package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sqlpeek/sqlpeek/internal/analysis"
	"github.com/sqlpeek/sqlpeek/internal/meta"
)

// AnalysisHandler exposes the analysis engine: start/stop, the stored
// result, and the live progress event stream.
type AnalysisHandler struct {
	Manager *analysis.Manager
	Broker  *analysis.Broker
	Store   *meta.Store
}

// Start handles POST /api/analysis — fire-and-forget run launch.
func (h *AnalysisHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Body must be JSON with path")
		return
	}

	h.Manager.Start(req.Path)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"path":   req.Path,
		"status": "running",
	})
}

// Stop handles DELETE /api/analysis?path=. Stopping an idle path is fine.
func (h *AnalysisHandler) Stop(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PATH", "Query parameter path is required")
		return
	}

	h.Manager.Stop(path)
	writeJSON(w, http.StatusOK, map[string]any{
		"path":   path,
		"status": "cancelled",
	})
}

// Result handles GET /api/analysis/result?path= — the last stored result.
func (h *AnalysisHandler) Result(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PATH", "Query parameter path is required")
		return
	}

	raw, ok, err := h.Store.Result(r.Context(), path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load analysis result")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "NO_RESULT", "No analysis result stored for this database")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(raw))
}

// Events handles GET /api/analysis/events?path= — an SSE stream of
// progress snapshots, closed after the finished snapshot.
func (h *AnalysisHandler) Events(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PATH", "Query parameter path is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	updates := h.Broker.Subscribe(path)
	defer h.Broker.Unsubscribe(path, updates)

	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-updates:
			sendEvent(w, flusher, "progress", snap)
			if snap.Finished {
				return
			}
		}
	}
}

func sendEvent(w http.ResponseWriter, flusher http.Flusher, event string, v any) {
	data, _ := json.Marshal(v)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
