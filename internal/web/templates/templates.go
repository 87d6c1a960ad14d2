// Package templates renders the dashboard's HTML views as templ components.
// Components are plain templ.ComponentFunc values composed by the handlers;
// the client-side script in static/app.js drives the interactive parts
// against the JSON API.
package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/stockboard/stockboard/internal/catalog"
)

// DashboardData is everything the dashboard page needs: derived statistics
// over the whole collection, the projected rows and columns for the current
// view state, and the view state itself for rendering controls.
type DashboardData struct {
	Stats      catalog.Stats
	Projection catalog.Projection
	State      catalog.ViewState
}

// Dashboard renders the full dashboard page.
func Dashboard(data DashboardData) templ.Component {
	return layout("Product Inventory", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := statsCards(data.Stats).Render(ctx, w); err != nil {
			return err
		}
		if err := toolbar(data.State).Render(ctx, w); err != nil {
			return err
		}
		if err := hiddenColumnChips(data.State).Render(ctx, w); err != nil {
			return err
		}
		return productTable(data.Projection, data.State).Render(ctx, w)
	}))
}

// layout wraps page content in the HTML shell.
func layout(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="/static/style.css">
</head>
<body>
<header class="topbar"><h1>%s</h1></header>
<main class="container">`, html.EscapeString(title), html.EscapeString(title)); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main>
<script src="/static/app.js"></script>
</body>
</html>`)
		return err
	})
}

// statsCards renders the five summary cards derived from the entire
// unfiltered collection.
func statsCards(stats catalog.Stats) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cards := []struct {
			label string
			value string
			class string
		}{
			{"Total Products", fmt.Sprintf("%d", stats.Total), "stat"},
			{"In Stock", fmt.Sprintf("%d", stats.InStock), "stat stat-in"},
			{"Low Stock", fmt.Sprintf("%d", stats.LowStock), "stat stat-low"},
			{"Out of Stock", fmt.Sprintf("%d", stats.OutOfStock), "stat stat-out"},
			{"Total Value", fmt.Sprintf("£%.2f", stats.TotalValue), "stat"},
		}

		if _, err := io.WriteString(w, `<section class="stats">`); err != nil {
			return err
		}
		for _, c := range cards {
			if _, err := fmt.Fprintf(w, `<div class="%s"><div class="stat-label">%s</div><div class="stat-value">%s</div></div>`,
				c.class, html.EscapeString(c.label), html.EscapeString(c.value)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// toolbar renders the search box and action buttons. The form submits via
// GET so the view state round-trips through query parameters.
func toolbar(state catalog.ViewState) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="toolbar">
<form method="get" action="/" class="search-form">
<input type="search" name="search" value="%s" placeholder="Search by name, brand, or ID...">%s
<button type="submit">Search</button>
</form>
<div class="actions">
<button id="add-product">Add Product</button>
<button id="bulk-import">Bulk Import</button>
<a href="/api/template?format=csv" download>Template CSV</a>
<a id="export-filtered" href="#">Download Filtered</a>
<a id="export-all" href="#">Download All</a>
</div>
</section>`, html.EscapeString(state.Search), sortInputs(state))
		return err
	})
}

// sortInputs preserves the active sort across search submissions.
func sortInputs(state catalog.ViewState) string {
	if state.SortKey == "" {
		return ""
	}
	return fmt.Sprintf(`<input type="hidden" name="sort" value="%s"><input type="hidden" name="dir" value="%s">`,
		html.EscapeString(state.SortKey), html.EscapeString(string(state.SortDir)))
}

// hiddenColumnChips lists the currently hidden columns so they can be
// restored with a click.
func hiddenColumnChips(state catalog.ViewState) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(state.Hidden) == 0 {
			return nil
		}
		if _, err := io.WriteString(w, `<section class="hidden-columns">Hidden: `); err != nil {
			return err
		}
		for _, key := range state.ColumnOrder {
			if !state.Hidden[key] {
				continue
			}
			if _, err := fmt.Fprintf(w, `<button class="chip" data-show-column="%s">%s</button>`,
				html.EscapeString(key), html.EscapeString(catalog.ColumnLabel(key))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// productTable renders the projected rows under the projected columns.
// Header cells are draggable for reordering and clickable for sorting;
// app.js wires both against the query parameters.
func productTable(projection catalog.Projection, state catalog.ViewState) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="card"><h2>Products (%d)</h2><table class="products"><thead><tr>`,
			len(projection.Products)); err != nil {
			return err
		}

		for _, col := range projection.Columns {
			indicator := ""
			if col.Key == state.SortKey {
				if state.SortDir == catalog.SortDesc {
					indicator = " ▼"
				} else {
					indicator = " ▲"
				}
			}
			if _, err := fmt.Fprintf(w, `<th draggable="true" data-column="%s">%s%s</th>`,
				html.EscapeString(col.Key), html.EscapeString(col.Label), indicator); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<th>Actions</th></tr></thead><tbody>`); err != nil {
			return err
		}

		for _, p := range projection.Products {
			if _, err := io.WriteString(w, `<tr>`); err != nil {
				return err
			}
			for _, col := range projection.Columns {
				if err := writeCell(w, p, col.Key); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, `<td class="row-actions"><button data-edit="%[1]s">Edit</button><button data-delete="%[1]s">Delete</button></td></tr>`,
				html.EscapeString(p.ID)); err != nil {
				return err
			}
		}

		if len(projection.Products) == 0 {
			span := len(projection.Columns) + 1
			if _, err := fmt.Fprintf(w, `<tr><td colspan="%d" class="empty">No products found</td></tr>`, span); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</tbody></table></section>`)
		return err
	})
}

// writeCell renders one table cell for a column key.
func writeCell(w io.Writer, p catalog.Product, key string) error {
	switch key {
	case catalog.ColImage:
		if p.ImageURL == "" {
			_, err := io.WriteString(w, `<td class="cell-image"></td>`)
			return err
		}
		_, err := fmt.Fprintf(w, `<td class="cell-image"><img src="%s" alt="%s"></td>`,
			html.EscapeString(p.ImageURL), html.EscapeString(p.Name))
		return err
	case catalog.ColPrice:
		_, err := fmt.Fprintf(w, `<td class="cell-price">£%.2f</td>`, p.Price)
		return err
	case catalog.ColAvailability:
		_, err := fmt.Fprintf(w, `<td><span class="badge %s">%s</span></td>`,
			availabilityClass(p.Availability), html.EscapeString(string(p.Availability)))
		return err
	case catalog.ColID:
		_, err := fmt.Fprintf(w, `<td>%s</td>`, html.EscapeString(p.ID))
		return err
	case catalog.ColName:
		_, err := fmt.Fprintf(w, `<td>%s</td>`, html.EscapeString(p.Name))
		return err
	case catalog.ColBrand:
		_, err := fmt.Fprintf(w, `<td>%s</td>`, html.EscapeString(p.Brand))
		return err
	default:
		_, err := fmt.Fprintf(w, `<td>%s</td>`, html.EscapeString(p.Extra(key)))
		return err
	}
}

func availabilityClass(a catalog.Availability) string {
	switch a {
	case catalog.InStock:
		return "badge-in"
	case catalog.LowStock:
		return "badge-low"
	case catalog.OutOfStock:
		return "badge-out"
	default:
		return ""
	}
}
