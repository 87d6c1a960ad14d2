package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stockboard/stockboard/internal/catalog"
	"github.com/stockboard/stockboard/internal/logging"
	"github.com/stockboard/stockboard/internal/web/templates"
)

// handleDashboard serves the main dashboard page. The view state round-trips
// through query parameters so the rendered page is a pure function of the
// URL and the current collection.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	state := parseViewState(r)
	projection := catalog.Project(s.store.Snapshot(), state)

	data := templates.DashboardData{
		Stats:      s.store.Stats(),
		Projection: projection,
		State:      state,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

// handleListProducts returns the projected rows and visible columns for the
// view state carried in the query parameters.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	state := parseViewState(r)
	projection := catalog.Project(s.store.Snapshot(), state)
	writeJSON(w, http.StatusOK, projection)
}

// handleAddProduct adds a single product. Duplicate IDs are rejected here,
// unlike the bulk import path.
func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Brand = strings.TrimSpace(p.Brand)

	if err := s.store.Add(p); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, catalog.ErrDuplicateID) {
			status = http.StatusConflict
		}
		writeError(w, r, status, err)
		return
	}

	logging.FromContext(r.Context()).Info("product added", "id", p.ID)
	writeJSON(w, http.StatusCreated, p)
}

// handleUpdateProduct replaces the product with the given ID in place,
// preserving its position in the collection.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	p.ID = id

	ok, err := s.store.Update(id, p)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, fmt.Errorf("product %s not found", id))
		return
	}

	logging.FromContext(r.Context()).Info("product updated", "id", id)
	writeJSON(w, http.StatusOK, p)
}

// handleDeleteProduct removes the product with the given ID.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	if !s.store.Delete(id) {
		writeError(w, r, http.StatusNotFound, fmt.Errorf("product %s not found", id))
		return
	}

	logging.FromContext(r.Context()).Info("product deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleStats returns counts and total value over the entire collection,
// ignoring any active filter.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

// parseViewState builds a view state from query parameters:
//
//	search  free-text filter term
//	sort    column key; empty means insertion order
//	dir     asc or desc, default asc
//	hidden  comma-separated hidden column keys
//	order   comma-separated master column order
//
// Unknown or absent parameters fall back to the defaults, so a bare URL
// renders the canonical view.
func parseViewState(r *http.Request) catalog.ViewState {
	q := r.URL.Query()
	state := catalog.NewViewState()

	state.Search = q.Get("search")
	state.SortKey = q.Get("sort")
	if q.Get("dir") == string(catalog.SortDesc) {
		state.SortDir = catalog.SortDesc
	}

	if hidden := q.Get("hidden"); hidden != "" {
		for _, key := range strings.Split(hidden, ",") {
			if key = strings.TrimSpace(key); key != "" {
				state.Hidden[key] = true
			}
		}
	}

	if order := q.Get("order"); order != "" {
		keys := make([]string, 0, len(state.ColumnOrder))
		seen := make(map[string]bool)
		for _, key := range strings.Split(order, ",") {
			if key = strings.TrimSpace(key); key != "" && !seen[key] {
				keys = append(keys, key)
				seen[key] = true
			}
		}
		// Keep any canonical columns the client omitted at the tail so a
		// stale order parameter can never lose a column.
		for _, key := range state.ColumnOrder {
			if !seen[key] {
				keys = append(keys, key)
			}
		}
		state.ColumnOrder = keys
	}

	return state
}
