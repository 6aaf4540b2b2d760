package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/adeane/devinsight/internal/domain"
	"github.com/adeane/devinsight/internal/storage"
)

// CounterSource reports ingestion progress. Implemented by ingest.Pipeline;
// everything behind it is atomic, so reads are safe from any goroutine.
type CounterSource interface {
	Counters() domain.LogStats
	Lines() int64
	Skipped() int64
	StoreErrors() int64
}

// StorageSource reports the rotator's current status. nil when storage is
// disabled.
type StorageSource interface {
	Status() (storage.Status, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	counters CounterSource
	store    StorageSource
	dir      string
}

// NewHandlers creates new HTTP handlers. store may be nil.
func NewHandlers(counters CounterSource, store StorageSource, dir string) *Handlers {
	return &Handlers{counters: counters, store: store, dir: dir}
}

// StatsResponse represents the response for GET /api/v1/stats
type StatsResponse struct {
	Lines       int64 `json:"lines"`
	Skipped     int64 `json:"skipped"`
	StoreErrors int64 `json:"store_errors"`
	Errors      int   `json:"errors"`
	Warnings    int   `json:"warnings"`
	Infos       int   `json:"infos"`
	Debugs      int   `json:"debugs"`
	Verboses    int   `json:"verboses"`
}

// StorageResponse represents the response for GET /api/v1/storage
type StorageResponse struct {
	Enabled     bool   `json:"enabled"`
	CurrentFile string `json:"current_file,omitempty"`
	TotalSize   int64  `json:"total_size,omitempty"`
	FileCount   int    `json:"file_count,omitempty"`
}

// LogsResponse represents the response for GET /api/v1/logs
type LogsResponse struct {
	Records []storage.Record `json:"records"`
	Count   int              `json:"count"`
}

// ErrorResponse represents an error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetStats handles GET /api/v1/stats
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.counters.Counters()
	writeJSON(w, http.StatusOK, StatsResponse{
		Lines:       h.counters.Lines(),
		Skipped:     h.counters.Skipped(),
		StoreErrors: h.counters.StoreErrors(),
		Errors:      stats.Errors,
		Warnings:    stats.Warnings,
		Infos:       stats.Infos,
		Debugs:      stats.Debugs,
		Verboses:    stats.Verboses,
	})
}

// GetStorage handles GET /api/v1/storage
func (h *Handlers) GetStorage(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, StorageResponse{Enabled: false})
		return
	}
	status, err := h.store.Status()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StorageResponse{
		Enabled:     true,
		CurrentFile: status.CurrentFile,
		TotalSize:   status.TotalSize,
		FileCount:   status.FileCount,
	})
}

// QueryLogs handles GET /api/v1/logs?from=RFC3339&to=RFC3339
func (h *Handlers) QueryLogs(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, domain.ErrStorageDisabled)
		return
	}

	from, err := parseTimeParam(r, "from", time.Time{})
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := parseTimeParam(r, "to", time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := storage.Query(h.dir, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []storage.Record{}
	}
	writeJSON(w, http.StatusOK, LogsResponse{Records: records, Count: len(records)})
}

// parseTimeParam parses an RFC3339 query parameter, falling back to def when
// the parameter is absent
func parseTimeParam(r *http.Request, name string, def time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.Join(domain.ErrInvalidTimeRange, err)
	}
	return t, nil
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidTimeRange):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrStorageDisabled):
		status = http.StatusNotFound
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
