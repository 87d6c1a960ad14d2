package catalog

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
)

// ============================================================================
// WriteCSV Tests
// ============================================================================

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if got := buf.String(); got != "ID,Name,Brand,Price,Availability,Image URL" {
		t.Errorf("empty export = %q, want bare header", got)
	}
}

func TestWriteCSVRowFormat(t *testing.T) {
	products := []Product{
		{ID: "P1", Name: "Widget", Brand: "Acme", Price: 9.99, Availability: InStock, ImageURL: "https://example.com/a.png"},
		{ID: "P2", Name: "Gadget", Brand: "Globex", Price: 20, Availability: OutOfStock},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, products); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}

	// String fields are quote-wrapped, id and price stay bare, and the
	// price uses the shortest round-trip form.
	want1 := `P1,"Widget","Acme",9.99,"In Stock","https://example.com/a.png"`
	if lines[1] != want1 {
		t.Errorf("line 1 = %q, want %q", lines[1], want1)
	}
	want2 := `P2,"Gadget","Globex",20,"Out of Stock",""`
	if lines[2] != want2 {
		t.Errorf("line 2 = %q, want %q", lines[2], want2)
	}
}

func TestWriteCSVExcludesExtras(t *testing.T) {
	products := []Product{{
		ID: "P1", Name: "Widget", Brand: "Acme", Price: 1, Availability: InStock,
		Extras: map[string]Cell{"extra1": TextCell("never exported")},
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, products); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if strings.Contains(buf.String(), "never exported") {
		t.Error("extension fields must not appear in the export")
	}
}

// ============================================================================
// Template Tests
// ============================================================================

func TestTemplateShape(t *testing.T) {
	var buf bytes.Buffer
	if err := Template(&buf); err != nil {
		t.Fatalf("Template() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("template is not valid CSV: %v", err)
	}

	if len(records) != 6 {
		t.Fatalf("len(records) = %d, want header + 5 samples", len(records))
	}
	wantCols := 6 + ExtraColumnCount
	for i, record := range records {
		if len(record) != wantCols {
			t.Errorf("record %d has %d columns, want %d", i, len(record), wantCols)
		}
	}

	header := records[0]
	if header[0] != "id" || header[5] != "imageUrl" || header[6] != "extra1" {
		t.Errorf("header = %v..., want id..imageUrl,extra1...", header[:7])
	}
	if records[1][0] != "PROD001" || records[1][1] != "Sample Product" {
		t.Errorf("first sample = %q/%q, want PROD001/Sample Product", records[1][0], records[1][1])
	}
}

func TestTemplatePlaceholderCapped(t *testing.T) {
	for _, i := range []int{1, 9, 70} {
		s := templatePlaceholder(i)
		if len(s) > 120 {
			t.Errorf("placeholder %d has length %d, want <= 120", i, len(s))
		}
		if !strings.HasPrefix(s, "Value Extra ") {
			t.Errorf("placeholder %d = %q, want Value Extra prefix", i, s)
		}
	}
}

func TestTemplateRoundTripsThroughImport(t *testing.T) {
	// The generated template must decode and validate cleanly when a user
	// uploads it unmodified.
	var buf bytes.Buffer
	if err := Template(&buf); err != nil {
		t.Fatalf("Template() error = %v", err)
	}

	rows, err := DecodeFile(TemplateFilenameCSV, buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeFile(template) error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want 5", len(rows))
	}

	for i, row := range rows {
		p, failed := NormalizeRow(row, i)
		if failed != nil {
			t.Fatalf("template row %d rejected: %+v", i, failed)
		}
		if len(p.Extras) != ExtraColumnCount {
			t.Errorf("row %d extras = %d, want %d", i, len(p.Extras), ExtraColumnCount)
		}
	}
}

func TestTemplateXLSXRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := TemplateXLSX(&buf); err != nil {
		t.Fatalf("TemplateXLSX() error = %v", err)
	}

	rows, err := DecodeFile(TemplateFilenameXLSX, buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeFile(xlsx template) error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want 5", len(rows))
	}
	for i, row := range rows {
		if _, failed := NormalizeRow(row, i); failed != nil {
			t.Fatalf("xlsx template row %d rejected: %+v", i, failed)
		}
	}
}
