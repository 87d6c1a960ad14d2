// Package catalog provides the domain logic for the product inventory
// dashboard: spreadsheet decoding, row normalization and validation, the
// in-memory product collection, view projection, and CSV export.
// This package has no HTTP dependencies and can be used by any frontend.
package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Availability is the closed stock-status enumeration.
type Availability string

const (
	InStock    Availability = "In Stock"
	LowStock   Availability = "Low Stock"
	OutOfStock Availability = "Out of Stock"
)

// CellKind discriminates the scalar variants a spreadsheet cell can hold.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is a tagged scalar value from a spreadsheet: text, number, or empty.
// Decoders produce Cells; the normalizer and extension fields consume them.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell returns a text Cell. An empty string yields an empty Cell.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric Cell.
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String returns the cell's value as text. Numbers use the shortest
// representation that round-trips ("9.99", not "9.990000").
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// MarshalJSON serializes the cell as its natural scalar: a JSON string for
// text, a JSON number for numbers, null when empty.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellText:
		return json.Marshal(c.Text)
	case CellNumber:
		return json.Marshal(c.Number)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON string, number, or null.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*c = Cell{}
	case string:
		*c = TextCell(val)
	case float64:
		*c = NumberCell(val)
	default:
		return fmt.Errorf("unsupported cell value %T", v)
	}
	return nil
}

// RawRow is one decoded spreadsheet row: original column header to raw cell
// value, prior to any normalization or validation.
type RawRow map[string]Cell

// Product is one inventory record.
// ID, Name and Brand are non-empty and Price is positive for every Product
// accepted into the collection; Availability is always one of the three
// enumerated literals.
type Product struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Brand        string       `json:"brand"`
	Price        float64      `json:"price"`
	Availability Availability `json:"availability"`
	ImageURL     string       `json:"imageUrl,omitempty"`

	// Extras holds the sparse extra1..extra70 extension fields keyed by
	// their lowercased column name. Absent keys mean the source data had
	// no value; extras carry no validation.
	Extras map[string]Cell `json:"extras,omitempty"`
}

// Extra returns the extension field for key as display text, or "" when the
// product has no value for it.
func (p Product) Extra(key string) string {
	if p.Extras == nil {
		return ""
	}
	return p.Extras[key].String()
}

// FailedRow records one rejected import row.
type FailedRow struct {
	// Row is the 1-based spreadsheet row number; the header row is row 1,
	// so the first data row reports as 2.
	Row  int               `json:"row"`
	Err  string            `json:"error"`
	Data map[string]string `json:"data,omitempty"`
}

// ImportResult is the final outcome of one import run. It is retained in
// memory for a short window after completion and then discarded.
type ImportResult struct {
	ImportID   string        `json:"importId"`
	FileName   string        `json:"fileName"`
	Successful []Product     `json:"successful"`
	Failed     []FailedRow   `json:"failed"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"` // non-empty if the whole import failed
}

// ImportPhase indicates the current stage of import processing.
type ImportPhase string

const (
	PhaseStarting   ImportPhase = "starting"
	PhaseDecoding   ImportPhase = "decoding"
	PhaseValidating ImportPhase = "validating"
	PhaseMerging    ImportPhase = "merging"
	PhaseComplete   ImportPhase = "complete"
	PhaseFailed     ImportPhase = "failed"
)

// ImportProgress represents the current state of an import run.
type ImportProgress struct {
	ImportID  string      `json:"importId"`
	FileName  string      `json:"fileName"`
	Phase     ImportPhase `json:"phase"`
	TotalRows int         `json:"totalRows"`
	Accepted  int         `json:"accepted"`
	Rejected  int         `json:"rejected"`
	Error     string      `json:"error,omitempty"` // non-empty if Phase is PhaseFailed
}

// Percent maps the phase checkpoints to an approximate completion
// percentage for display: start, post-decode, post-validation, done.
func (p ImportProgress) Percent() int {
	switch p.Phase {
	case PhaseStarting:
		return 0
	case PhaseDecoding:
		return 10
	case PhaseValidating:
		return 50
	case PhaseMerging:
		return 90
	case PhaseComplete, PhaseFailed:
		return 100
	default:
		return 0
	}
}

// Stats are derived over the entire unfiltered collection; the live search
// term never affects them.
type Stats struct {
	Total      int     `json:"total"`
	InStock    int     `json:"inStock"`
	LowStock   int     `json:"lowStock"`
	OutOfStock int     `json:"outOfStock"`
	TotalValue float64 `json:"totalValue"` // sum of price across all products
}
