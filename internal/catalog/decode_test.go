package catalog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ============================================================================
// DecodeFile Tests (CSV)
// ============================================================================

func TestDecodeFileCSV(t *testing.T) {
	data := []byte("id,name,brand,price\nP1,Widget,Acme,9.99\nP2,Gadget,Globex,19.99\n")

	rows, err := DecodeFile("products.csv", data)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	if got := rows[0]["id"].String(); got != "P1" {
		t.Errorf("rows[0][id] = %q, want P1", got)
	}
	if got := rows[1]["name"].String(); got != "Gadget" {
		t.Errorf("rows[1][name] = %q, want Gadget", got)
	}
	// CSV cells stay textual even when they look numeric
	if kind := rows[0]["price"].Kind; kind != CellText {
		t.Errorf("rows[0][price].Kind = %v, want CellText", kind)
	}
}

func TestDecodeFileCSVSkipsEmptyLines(t *testing.T) {
	data := []byte("id,name\nP1,Widget\n\n , \nP2,Gadget\n")

	rows, err := DecodeFile("products.csv", data)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2 (empty lines skipped)", len(rows))
	}
	if rows[0]["id"].String() != "P1" || rows[1]["id"].String() != "P2" {
		t.Error("row order not preserved across skipped lines")
	}
}

func TestDecodeFileCSVHeaderTrimmed(t *testing.T) {
	data := []byte(" id , name \nP1,Widget\n")

	rows, err := DecodeFile("products.csv", data)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if got := rows[0]["id"].String(); got != "P1" {
		t.Errorf("rows[0][id] = %q, want P1 (padded header should be trimmed)", got)
	}
}

func TestDecodeFileCSVShortRecord(t *testing.T) {
	// A record with fewer fields than the header simply omits the tail keys.
	data := []byte("id,name,brand\nP1,Widget\n")

	rows, err := DecodeFile("products.csv", data)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if _, ok := rows[0]["brand"]; ok {
		t.Error("missing trailing field should not produce a key")
	}
}

func TestDecodeFileCSVEmpty(t *testing.T) {
	_, err := DecodeFile("products.csv", []byte(""))
	if err == nil {
		t.Fatal("DecodeFile(empty) = nil error, want DecodeError")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
	if decodeErr.FileName != "products.csv" {
		t.Errorf("FileName = %q, want products.csv", decodeErr.FileName)
	}
}

func TestDecodeFileCSVInvalidUTF8(t *testing.T) {
	data := []byte("id,name\nP1,Widg\x80et\n")

	rows, err := DecodeFile("products.csv", data)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if got := rows[0]["name"].String(); got != "Widg�et" {
		t.Errorf("name = %q, want replacement character substitution", got)
	}
}

// ============================================================================
// DecodeFile Tests (Workbook)
// ============================================================================

func buildWorkbook(t *testing.T, records [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, record := range records {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow(sheet, addr, &record); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeFileXLSX(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"id", "name", "price"},
		{"P1", "Widget", 9.99},
		{"P2", "Gadget", "not a number"},
	})

	rows, err := DecodeFile("products.xlsx", data)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	// Workbook cells carry their numeric type through
	price := rows[0]["price"]
	if price.Kind != CellNumber || price.Number != 9.99 {
		t.Errorf("rows[0][price] = %+v, want number 9.99", price)
	}
	if rows[1]["price"].Kind != CellText {
		t.Errorf("rows[1][price].Kind = %v, want CellText", rows[1]["price"].Kind)
	}
}

func TestDecodeFileXLSXMalformed(t *testing.T) {
	_, err := DecodeFile("products.xlsx", []byte("this is not a zip archive"))
	if err == nil {
		t.Fatal("DecodeFile(garbage xlsx) = nil error, want DecodeError")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
}

// ============================================================================
// SupportedFile Tests
// ============================================================================

func TestSupportedFile(t *testing.T) {
	tests := []struct {
		fileName string
		want     bool
	}{
		{"products.csv", true},
		{"products.CSV", true},
		{"products.xlsx", true},
		{"products.XLSX", true},
		{"products.xls", true},
		{"products.txt", false},
		{"products.json", false},
		{"products", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			if got := SupportedFile(tt.fileName); got != tt.want {
				t.Errorf("SupportedFile(%q) = %v, want %v", tt.fileName, got, tt.want)
			}
		})
	}
}

func TestDecodeFileUnsupportedType(t *testing.T) {
	_, err := DecodeFile("products.txt", []byte("id,name\nP1,Widget\n"))
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Errorf("error = %v, want ErrUnsupportedFileType", err)
	}
}
