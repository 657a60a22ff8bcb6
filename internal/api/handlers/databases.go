package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sqlpeek/sqlpeek/internal/meta"
	"github.com/sqlpeek/sqlpeek/internal/source"
)

// DatabasesHandler handles registration and listing of database files.
type DatabasesHandler struct {
	Store *meta.Store
}

type databaseItem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	CreatedAt    string `json:"created_at"`
	LastAccessed string `json:"last_accessed"`
	Analyzed     bool   `json:"analyzed"`
}

func toDatabaseItem(d meta.Database) databaseItem {
	return databaseItem{
		ID:           d.ID,
		Name:         d.Name,
		Path:         d.Path,
		CreatedAt:    time.Unix(d.CreatedAt, 0).UTC().Format(time.RFC3339),
		LastAccessed: time.Unix(d.LastAccessed, 0).UTC().Format(time.RFC3339),
		Analyzed:     d.AnalysisResults != nil,
	}
}

// Create handles POST /api/databases — registers a database file.
func (h *DatabasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Body must be JSON with name and path")
		return
	}
	if req.Name == "" {
		req.Name = req.Path
	}

	// Reject paths that are not readable SQLite databases up front.
	db, err := source.Open(req.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DATABASE", "Not a readable SQLite database: "+req.Path)
		return
	}
	db.Close()

	d, err := h.Store.Import(r.Context(), req.Name, req.Path)
	if err != nil {
		slog.Error("databases: import", "path", req.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register database")
		return
	}
	writeJSON(w, http.StatusCreated, toDatabaseItem(d))
}

// List handles GET /api/databases — most recently accessed first.
func (h *DatabasesHandler) List(w http.ResponseWriter, r *http.Request) {
	dbs, err := h.Store.List(r.Context())
	if err != nil {
		slog.Error("databases: list", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list databases")
		return
	}

	items := make([]databaseItem, 0, len(dbs))
	for _, d := range dbs {
		items = append(items, toDatabaseItem(d))
	}
	writeJSON(w, http.StatusOK, ListResponse[databaseItem]{Items: items, Total: len(items)})
}

// Delete handles DELETE /api/databases/{id} — removes the metadata row only.
func (h *DatabasesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid database ID")
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		slog.Error("databases: delete", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete database")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
