// export.go serializes product sequences back to spreadsheet form: the CSV
// export of the current view and the illustrative import template.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Download filenames used by the web layer.
const (
	ExportFilenameFiltered = "products-filtered.csv"
	ExportFilenameAll      = "products-all.csv"
	TemplateFilenameCSV    = "product_template.csv"
	TemplateFilenameXLSX   = "product_template.xlsx"
)

// exportHeader is the fixed 6-column export header. Extension fields are
// never exported.
var exportHeader = []string{"ID", "Name", "Brand", "Price", "Availability", "Image URL"}

// WriteCSV serializes products in the dashboard's historical export format:
// the fixed header, then one line per product with every string-typed field
// wrapped in double quotes and the price bare.
//
// Embedded double quotes in fields are not escaped. That mirrors the files
// this dashboard has always produced and the consumers that parse them;
// the export is not a guaranteed round-trip format.
func WriteCSV(w io.Writer, products []Product) error {
	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))

	for _, p := range products {
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			p.ID,
			`"` + p.Name + `"`,
			`"` + p.Brand + `"`,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			`"` + string(p.Availability) + `"`,
			`"` + p.ImageURL + `"`,
		}, ","))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// templateImageURL is the placeholder image in the generated template rows.
const templateImageURL = "https://images.unsplash.com/photo-1649972904349-6e44c42644a7?w=400&h=400&fit=crop"

// templateLorem pads the extension columns of the template so users can see
// that long free-form values are fine.
const templateLorem = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Pellentesque euismod, nisi eu consectetur consectetur, nisl nisi euismod nisi, euismod euismod nisi."

// templateColumns returns the 6 core columns plus all numbered extension
// columns, in upload order.
func templateColumns() []string {
	cols := []string{"id", "name", "price", "brand", "availability", "imageUrl"}
	for i := 1; i <= ExtraColumnCount; i++ {
		cols = append(cols, fmt.Sprintf("extra%d", i))
	}
	return cols
}

// templateRows returns the five illustrative records users fill in and
// re-upload.
func templateRows() [][]string {
	type sample struct {
		id, name, price, brand string
		availability           Availability
	}
	samples := []sample{
		{"PROD001", "Sample Product", "29.99", "Sample Brand", InStock},
		{"PROD002", "Another Product", "49.99", "Another Brand", LowStock},
		{"PROD003", "Another Product2", "49.99", "Another Brand", LowStock},
		{"PROD004", "Another Product3", "4.99", "Another Brand", LowStock},
		{"PROD005", "Another Product4", "9.99", "Another Brand", LowStock},
	}

	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		row := []string{s.id, s.name, s.price, s.brand, string(s.availability), templateImageURL}
		for i := 1; i <= ExtraColumnCount; i++ {
			row = append(row, templatePlaceholder(i))
		}
		rows = append(rows, row)
	}
	return rows
}

// templatePlaceholder builds the extension-column placeholder, capped at
// 120 characters.
func templatePlaceholder(i int) string {
	s := fmt.Sprintf("Value Extra %d - %s", i, templateLorem)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}

// Template writes the CSV import template: header plus five example rows
// across the core and extension columns.
func Template(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(templateColumns()); err != nil {
		return err
	}
	for _, row := range templateRows() {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TemplateXLSX writes the same template as an Excel workbook for users who
// prefer to fill it in as a spreadsheet.
func TemplateXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, 0, 6+ExtraColumnCount)
	for _, col := range templateColumns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range templateRows() {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
