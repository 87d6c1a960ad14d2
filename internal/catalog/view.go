// view.go derives the filtered, sorted, column-shaped presentation of the
// product collection. Projection is a pure function of a snapshot and an
// immutable view state; it keeps no hidden state and never mutates its
// inputs, so identical inputs always yield identical output.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Fixed column keys. The remaining known keys are extra1..extra70.
const (
	ColImage        = "image"
	ColID           = "id"
	ColName         = "name"
	ColBrand        = "brand"
	ColPrice        = "price"
	ColAvailability = "availability"
)

// ExtraColumnCount is the number of numbered extension columns.
const ExtraColumnCount = 70

// SortDir is the sort direction of the active sort key.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Column is one visible column of the projected table.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ViewState is the immutable view configuration threaded into Project.
// The zero value is not useful; construct with NewViewState.
type ViewState struct {
	Search  string
	SortKey string // empty means insertion order
	SortDir SortDir
	Hidden  map[string]bool
	// ColumnOrder is the master ordering of all known column keys; the
	// hidden set filters it down to the visible subset, preserving order.
	ColumnOrder []string
}

// NewViewState returns the default view: no search, no sort, nothing
// hidden, columns in their canonical order.
func NewViewState() ViewState {
	return ViewState{
		SortDir:     SortAsc,
		Hidden:      map[string]bool{},
		ColumnOrder: DefaultColumnOrder(),
	}
}

// DefaultColumnOrder returns the canonical master ordering: the six fixed
// columns followed by the numbered extension columns.
func DefaultColumnOrder() []string {
	order := make([]string, 0, 6+ExtraColumnCount)
	order = append(order, ColImage, ColID, ColName, ColBrand, ColPrice, ColAvailability)
	for i := 1; i <= ExtraColumnCount; i++ {
		order = append(order, fmt.Sprintf("extra%d", i))
	}
	return order
}

// ColumnLabel returns the display label for a column key.
func ColumnLabel(key string) string {
	switch key {
	case ColImage:
		return "Image"
	case ColID:
		return "ID"
	case ColName:
		return "Name"
	case ColBrand:
		return "Brand"
	case ColPrice:
		return "Price"
	case ColAvailability:
		return "Availability"
	}
	if n, ok := strings.CutPrefix(key, extraKeyPrefix); ok {
		return "Extra " + n
	}
	return key
}

// Projection is the derived display form of the collection: ordered rows
// after filter and sort, and the ordered visible columns.
type Projection struct {
	Products []Product `json:"products"`
	Columns  []Column  `json:"columns"`
}

// Project derives the display rows and columns for the given snapshot and
// view state.
//
// The filter is a case-insensitive substring match of the search term
// against name, brand, or id; an empty term matches everything. Sorting is
// stable: ties keep their insertion-relative order. String-typed fields
// compare locale-aware, price compares numerically, and mixed or absent
// values compare equal.
func Project(products []Product, vs ViewState) Projection {
	rows := filterProducts(products, vs.Search)

	if vs.SortKey != "" {
		c := collate.New(language.Und)
		desc := vs.SortDir == SortDesc
		sort.SliceStable(rows, func(i, j int) bool {
			cmp := compareField(c, rows[i], rows[j], vs.SortKey)
			if desc {
				cmp = -cmp
			}
			return cmp < 0
		})
	}

	var columns []Column
	for _, key := range vs.ColumnOrder {
		if vs.Hidden[key] {
			continue
		}
		columns = append(columns, Column{Key: key, Label: ColumnLabel(key)})
	}

	return Projection{Products: rows, Columns: columns}
}

func filterProducts(products []Product, search string) []Product {
	term := strings.ToLower(strings.TrimSpace(search))
	rows := make([]Product, 0, len(products))
	if term == "" {
		return append(rows, products...)
	}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Brand), term) ||
			strings.Contains(strings.ToLower(p.ID), term) {
			rows = append(rows, p)
		}
	}
	return rows
}

// compareField orders two products by one column. Both values textual:
// locale-aware comparison. Both numeric: numeric comparison. Anything
// else, including absent extension values, compares equal so the stable
// sort leaves relative order untouched.
func compareField(c *collate.Collator, a, b Product, key string) int {
	av := fieldCell(a, key)
	bv := fieldCell(b, key)

	switch {
	case av.Kind == CellText && bv.Kind == CellText:
		return c.CompareString(av.Text, bv.Text)
	case av.Kind == CellNumber && bv.Kind == CellNumber:
		switch {
		case av.Number < bv.Number:
			return -1
		case av.Number > bv.Number:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

// fieldCell exposes a product field as a tagged scalar for comparison.
// The image column is presentational and never sortable.
func fieldCell(p Product, key string) Cell {
	switch key {
	case ColID:
		return TextCell(p.ID)
	case ColName:
		return TextCell(p.Name)
	case ColBrand:
		return TextCell(p.Brand)
	case ColPrice:
		return NumberCell(p.Price)
	case ColAvailability:
		return TextCell(string(p.Availability))
	case ColImage:
		return Cell{}
	default:
		if p.Extras == nil {
			return Cell{}
		}
		return p.Extras[key]
	}
}

// ToggleColumn returns a view state with the column's hidden flag flipped.
// The receiver is not modified.
func (vs ViewState) ToggleColumn(key string) ViewState {
	hidden := make(map[string]bool, len(vs.Hidden)+1)
	for k, v := range vs.Hidden {
		hidden[k] = v
	}
	if hidden[key] {
		delete(hidden, key)
	} else {
		hidden[key] = true
	}
	vs.Hidden = hidden
	return vs
}

// MoveColumn returns a view state with the source column moved to the
// target column's position: the source key is removed from the order and
// reinserted at the target's index. Unknown keys leave the order unchanged.
func (vs ViewState) MoveColumn(src, dst string) ViewState {
	from, to := -1, -1
	for i, key := range vs.ColumnOrder {
		switch key {
		case src:
			from = i
		case dst:
			to = i
		}
	}
	if from < 0 || to < 0 || src == dst {
		return vs
	}

	// Array-move: remove src, then reinsert at the target's original index
	// within the shortened sequence.
	order := make([]string, 0, len(vs.ColumnOrder))
	order = append(order, vs.ColumnOrder...)
	order = append(order[:from], order[from+1:]...)
	order = append(order[:to], append([]string{src}, order[to:]...)...)

	vs.ColumnOrder = order
	return vs
}

// ToggleSort returns a view state sorted by key: clicking the active key
// flips the direction, a new key resets to ascending.
func (vs ViewState) ToggleSort(key string) ViewState {
	if vs.SortKey == key {
		if vs.SortDir == SortAsc {
			vs.SortDir = SortDesc
		} else {
			vs.SortDir = SortAsc
		}
		return vs
	}
	vs.SortKey = key
	vs.SortDir = SortAsc
	return vs
}
