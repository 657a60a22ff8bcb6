package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sqlpeek/sqlpeek/internal/meta"
	"github.com/sqlpeek/sqlpeek/internal/source"
)

// BrowseHandler serves read-only views into a target database file.
type BrowseHandler struct {
	Store *meta.Store
}

// openTarget opens the database named by the path query parameter, writing
// the error response itself when that fails.
func (h *BrowseHandler) openTarget(w http.ResponseWriter, r *http.Request) *source.DB {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PATH", "Query parameter path is required")
		return nil
	}
	db, err := source.Open(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DATABASE", "Not a readable SQLite database: "+path)
		return nil
	}
	// Browsing counts as access for the recently-used ordering.
	if err := h.Store.Touch(r.Context(), path); err != nil {
		slog.Warn("browse: touch last_accessed", "path", path, "error", err)
	}
	return db
}

type tableItem struct {
	Name     string `json:"name"`
	RowCount int64  `json:"row_count"`
}

// Tables handles GET /api/browse/tables?path= — user tables with counts.
func (h *BrowseHandler) Tables(w http.ResponseWriter, r *http.Request) {
	db := h.openTarget(w, r)
	if db == nil {
		return
	}
	defer db.Close()

	tables, err := db.Tables(r.Context())
	if err != nil {
		slog.Error("browse: list tables", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tables")
		return
	}

	items := make([]tableItem, 0, len(tables))
	for _, name := range tables {
		// Count failures degrade to zero, they don't fail the listing.
		n, err := db.RowCount(r.Context(), name)
		if err != nil {
			slog.Warn("browse: row count", "table", name, "error", err)
			n = 0
		}
		items = append(items, tableItem{Name: name, RowCount: n})
	}
	writeJSON(w, http.StatusOK, ListResponse[tableItem]{Items: items, Total: len(items)})
}

// Rows handles GET /api/browse/rows?path=&table=&page=&page_size=&search=.
func (h *BrowseHandler) Rows(w http.ResponseWriter, r *http.Request) {
	db := h.openTarget(w, r)
	if db == nil {
		return
	}
	defer db.Close()

	table := r.URL.Query().Get("table")
	if table == "" {
		writeError(w, http.StatusBadRequest, "MISSING_TABLE", "Query parameter table is required")
		return
	}

	page := int64(1)
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			page = n
		}
	}
	pageSize := int64(50)
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 200 {
			pageSize = n
		}
	}

	data, err := db.TableData(r.Context(), table, page, pageSize, r.URL.Query().Get("search"))
	if err != nil {
		slog.Error("browse: table data", "table", table, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read table rows")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// Stats handles GET /api/browse/stats?path=.
func (h *BrowseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	db := h.openTarget(w, r)
	if db == nil {
		return
	}
	defer db.Close()

	stats, err := db.Stats(r.Context())
	if err != nil {
		slog.Error("browse: stats", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
