// normalize.go maps raw spreadsheet rows to validated Products. The mapping
// is a pure function applied independently per row; one row's failure never
// affects another's processing.
package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field synonym lists, checked in order. Header matching is case-insensitive
// and whitespace-trimmed; the first synonym with a value wins.
var (
	idKeys           = []string{"id", "product_id"}
	nameKeys         = []string{"name", "product_name"}
	brandKeys        = []string{"brand"}
	priceKeys        = []string{"price"}
	availabilityKeys = []string{"availability", "status"}
)

// extraKeyPrefix marks the numbered extension columns (extra1..extra70).
const extraKeyPrefix = "extra"

// NormalizeRow converts one raw row into a Product or a failure entry.
// index is the row's position in the parsed sequence; the reported row
// number is index+2, accounting for the 1-based header row the decoder
// already stripped.
//
// Validation runs in a fixed order and stops at the first violated rule:
// id non-empty, name non-empty, brand non-empty, price a finite number > 0.
// Any panic while processing the row is caught and converted into a failure
// entry rather than aborting the batch.
func NormalizeRow(row RawRow, index int) (product Product, failed *FailedRow) {
	rowNum := index + 2

	defer func() {
		if r := recover(); r != nil {
			failed = &FailedRow{
				Row:  rowNum,
				Err:  fmt.Sprintf("Processing error: %v", r),
				Data: rowData(row),
			}
		}
	}()

	normalized := make(map[string]Cell, len(row))
	for key, val := range row {
		normalized[strings.ToLower(strings.TrimSpace(key))] = val
	}

	id := strings.TrimSpace(resolve(normalized, idKeys).String())
	name := strings.TrimSpace(resolve(normalized, nameKeys).String())
	brand := strings.TrimSpace(resolve(normalized, brandKeys).String())
	price, priceOK := parsePrice(resolve(normalized, priceKeys))
	availability := resolve(normalized, availabilityKeys).String()

	imageURL := ""
	if img, ok := normalized["imageurl"]; ok && img.Kind == CellText {
		imageURL = strings.TrimSpace(img.Text)
	}

	fail := func(reason string) (Product, *FailedRow) {
		return Product{}, &FailedRow{Row: rowNum, Err: reason, Data: rowData(row)}
	}

	if id == "" {
		return fail(ReasonIDRequired)
	}
	if name == "" {
		return fail(ReasonNameRequired)
	}
	if brand == "" {
		return fail(ReasonBrandRequired)
	}
	if !priceOK {
		return fail(ReasonPriceInvalid)
	}

	product = Product{
		ID:           id,
		Name:         name,
		Brand:        brand,
		Price:        price,
		Availability: NormalizeAvailability(availability),
		ImageURL:     imageURL,
		Extras:       harvestExtras(normalized),
	}
	return product, nil
}

// resolve returns the first non-empty cell among the listed keys.
func resolve(normalized map[string]Cell, keys []string) Cell {
	for _, key := range keys {
		if cell, ok := normalized[key]; ok && !cell.IsEmpty() {
			return cell
		}
	}
	return Cell{}
}

// parsePrice converts a price cell to a float. A missing price defaults to
// zero before parsing, so it fails the price > 0 rule like any other
// non-positive value.
func parsePrice(cell Cell) (float64, bool) {
	var price float64
	switch cell.Kind {
	case CellNumber:
		price = cell.Number
	case CellText:
		n, err := strconv.ParseFloat(strings.TrimSpace(cell.Text), 64)
		if err != nil {
			return 0, false
		}
		price = n
	default:
		price = 0
	}

	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return price, false
	}
	return price, true
}

// NormalizeAvailability folds an arbitrary status value onto the closed
// enumeration. A value containing "out" (case-insensitive) or literally
// "false"/"0" means Out of Stock, a value containing "low" means Low Stock,
// and anything else, including an unset value, means In Stock.
func NormalizeAvailability(raw string) Availability {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(v, "out") || v == "false" || v == "0":
		return OutOfStock
	case strings.Contains(v, "low"):
		return LowStock
	default:
		return InStock
	}
}

// harvestExtras collects every normalized key with the extra prefix whose
// value is textual or numeric, verbatim and keyed by its lowercased name.
// Returns nil when the row carries no extension fields.
func harvestExtras(normalized map[string]Cell) map[string]Cell {
	var extras map[string]Cell
	for key, cell := range normalized {
		if !strings.HasPrefix(key, extraKeyPrefix) || cell.IsEmpty() {
			continue
		}
		if extras == nil {
			extras = make(map[string]Cell)
		}
		extras[key] = cell
	}
	return extras
}

// rowData renders the original row for failure reports, preserving the
// source header names.
func rowData(row RawRow) map[string]string {
	if len(row) == 0 {
		return nil
	}
	data := make(map[string]string, len(row))
	for key, cell := range row {
		data[key] = cell.String()
	}
	return data
}

// ValidateProduct applies the same fixed-order field rules the import
// pipeline applies, for products arriving through the manual add and edit
// dialogs. It returns nil when every collection invariant holds.
func ValidateProduct(p Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("invalid product: %s", ReasonIDRequired)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("invalid product: %s", ReasonNameRequired)
	}
	if strings.TrimSpace(p.Brand) == "" {
		return fmt.Errorf("invalid product: %s", ReasonBrandRequired)
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price <= 0 {
		return fmt.Errorf("invalid product: %s", ReasonPriceInvalid)
	}
	switch p.Availability {
	case InStock, LowStock, OutOfStock:
	default:
		return fmt.Errorf("invalid product: availability must be one of %q, %q, %q", InStock, LowStock, OutOfStock)
	}
	return nil
}
