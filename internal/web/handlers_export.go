package web

import (
	"fmt"
	"net/http"

	"github.com/stockboard/stockboard/internal/catalog"
	"github.com/stockboard/stockboard/internal/logging"
)

// handleExport streams the collection as CSV. scope=filtered applies the
// view state from the query parameters (filter and sort) before writing;
// scope=all, the default, exports every product in insertion order.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	products := s.store.Snapshot()
	filename := catalog.ExportFilenameAll

	if r.URL.Query().Get("scope") == "filtered" {
		state := parseViewState(r)
		products = catalog.Project(products, state).Products
		filename = catalog.ExportFilenameFiltered
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := catalog.WriteCSV(w, products); err != nil {
		logging.FromContext(r.Context()).Error("write export", "error", err)
	}
}
