package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/stockboard/stockboard/internal/catalog"
)

func renderDashboard(t *testing.T, data DashboardData) string {
	t.Helper()

	var b strings.Builder
	if err := Dashboard(data).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return b.String()
}

func dashboardData() DashboardData {
	state := catalog.NewViewState()
	products := []catalog.Product{
		{ID: "P1", Name: "Widget", Brand: "Acme", Price: 9.99, Availability: catalog.InStock},
		{ID: "P2", Name: "Gadget", Brand: "Globex", Price: 19.99, Availability: catalog.OutOfStock},
	}
	return DashboardData{
		Stats:      catalog.Stats{Total: 2, InStock: 1, OutOfStock: 1, TotalValue: 29.98},
		Projection: catalog.Project(products, state),
		State:      state,
	}
}

func TestDashboardRendersRows(t *testing.T) {
	html := renderDashboard(t, dashboardData())

	for _, want := range []string{"Widget", "Gadget", "£9.99", "Out of Stock", "badge-out"} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if !strings.Contains(html, `data-column="price"`) {
		t.Error("header cells should carry their column key")
	}
}

func TestDashboardEscapesUserContent(t *testing.T) {
	data := dashboardData()
	data.State.Search = `<script>alert(1)</script>`

	html := renderDashboard(t, data)
	if strings.Contains(html, "<script>alert(1)") {
		t.Error("search term rendered unescaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("search term should be HTML-escaped into the input value")
	}
}

func TestDashboardSortIndicator(t *testing.T) {
	data := dashboardData()
	data.State.SortKey = catalog.ColName
	data.State.SortDir = catalog.SortDesc
	data.Projection = catalog.Project([]catalog.Product{}, data.State)

	html := renderDashboard(t, data)
	if !strings.Contains(html, "Name ▼") {
		t.Error("descending sort indicator missing from the active column header")
	}
}

func TestDashboardEmptyState(t *testing.T) {
	state := catalog.NewViewState()
	data := DashboardData{Projection: catalog.Project(nil, state), State: state}

	html := renderDashboard(t, data)
	if !strings.Contains(html, "No products found") {
		t.Error("empty collection should render the empty row")
	}
}

func TestDashboardHiddenColumnChips(t *testing.T) {
	data := dashboardData()
	data.State = data.State.ToggleColumn(catalog.ColBrand)
	data.Projection = catalog.Project(nil, data.State)

	html := renderDashboard(t, data)
	if !strings.Contains(html, `data-show-column="brand"`) {
		t.Error("hidden column should render a restore chip")
	}
}
