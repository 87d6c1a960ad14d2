package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockboard/stockboard/internal/catalog"
	"github.com/stockboard/stockboard/internal/logging"
)

// handleImport accepts a spreadsheet upload and starts an asynchronous
// import run. The response carries the import ID; progress streams from
// the progress endpoint and the outcome from the result endpoint.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("file too large or invalid form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("no file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, fmt.Errorf("failed to read file: %w", err))
		return
	}

	// The run outlives this request, so detach its cancellation from the
	// response lifecycle while keeping request-scoped values for logging.
	importID, err := s.importer.Start(context.WithoutCancel(r.Context()), header.Filename, data)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, catalog.ErrImportBusy) {
			status = http.StatusTooManyRequests
		}
		writeError(w, r, status, err)
		return
	}

	logging.FromContext(r.Context()).Info("import started",
		"import_id", importID,
		"file", header.Filename,
		"size", len(data),
	)
	writeJSON(w, http.StatusAccepted, map[string]string{"import_id": importID})
}

// handleImportProgress streams import progress via Server-Sent Events.
// Supports resumption via lastEventId query parameter for reconnection.
func (s *Server) handleImportProgress(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "importID")

	// The event ID is the progress percentage, allowing clients to skip
	// already-received events after reconnection.
	lastEventIDStr := r.URL.Query().Get("lastEventId")
	var lastEventID int
	if lastEventIDStr != "" {
		lastEventID, _ = strconv.Atoi(lastEventIDStr)
	}

	progressCh, err := s.importer.SubscribeProgress(importID)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, fmt.Errorf("streaming not supported"))
		return
	}

	for {
		select {
		case progress, ok := <-progressCh:
			if !ok {
				// Channel closed, the run finished one way or the other
				fmt.Fprintf(w, "event: complete\ndata: {}\n\n")
				flusher.Flush()
				return
			}

			currentPercent := progress.Percent()
			if lastEventIDStr != "" && currentPercent <= lastEventID {
				continue
			}

			data, _ := json.Marshal(progress)
			fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", currentPercent, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// importSummary is the client-facing digest of a finished import: the
// success count plus at most five concrete failures and a remainder count.
type importSummary struct {
	ImportID     string              `json:"importId"`
	FileName     string              `json:"fileName"`
	Successful   int                 `json:"successful"`
	Failed       int                 `json:"failed"`
	FailedRows   []catalog.FailedRow `json:"failedRows,omitempty"`
	FailedMore   int                 `json:"failedMore,omitempty"`
	DurationMS   int64               `json:"durationMs"`
	Error        string              `json:"error,omitempty"`
	TotalInStore int                 `json:"totalInStore"`
}

const failedRowPreview = 5

// handleImportResult returns the final outcome of an import run, or 202
// while the run is still in flight.
func (s *Server) handleImportResult(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "importID")

	result, err := s.importer.Result(importID)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err)
		return
	}
	if result == nil {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "processing"})
		return
	}

	summary := importSummary{
		ImportID:     result.ImportID,
		FileName:     result.FileName,
		Successful:   len(result.Successful),
		Failed:       len(result.Failed),
		DurationMS:   result.Duration.Milliseconds(),
		Error:        result.Error,
		TotalInStore: s.store.Len(),
	}
	if n := len(result.Failed); n > 0 {
		preview := n
		if preview > failedRowPreview {
			preview = failedRowPreview
			summary.FailedMore = n - failedRowPreview
		}
		summary.FailedRows = result.Failed[:preview]
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleTemplate serves the blank import template, CSV by default or XLSX
// when format=xlsx.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("format") {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, catalog.TemplateFilenameXLSX))
		if err := catalog.TemplateXLSX(w); err != nil {
			logging.FromContext(r.Context()).Error("write template", "format", "xlsx", "error", err)
		}
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, catalog.TemplateFilenameCSV))
		if err := catalog.Template(w); err != nil {
			logging.FromContext(r.Context()).Error("write template", "format", "csv", "error", err)
		}
	default:
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("unsupported template format"))
	}
}
