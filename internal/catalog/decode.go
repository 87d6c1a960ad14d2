// decode.go turns an uploaded spreadsheet file into an ordered sequence of
// raw row records. The whole file is materialized before normalization
// begins; a parse failure surfaces as a single DecodeError with no partial
// results.
package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// MaxFileSize is the maximum allowed upload size (25MB). The whole file is
// held in memory while it is decoded.
var MaxFileSize int64 = 25 * 1024 * 1024

// SupportedFile reports whether the file's extension is an accepted upload
// format. The check runs before any parse attempt.
func SupportedFile(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".xlsx", ".xls":
		return true
	default:
		return false
	}
}

// DecodeFile parses an uploaded file into an ordered sequence of raw rows.
// The first row of the file supplies the column headers; fully empty lines
// are skipped and row order is preserved. CSV and Excel-family workbooks
// (first sheet only) are supported; any other extension is rejected with
// ErrUnsupportedFileType.
func DecodeFile(fileName string, data []byte) ([]RawRow, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		rows, err := decodeCSV(data)
		if err != nil {
			return nil, &DecodeError{FileName: fileName, Err: err}
		}
		return rows, nil
	case ".xlsx", ".xls":
		rows, err := decodeWorkbook(data)
		if err != nil {
			return nil, &DecodeError{FileName: fileName, Err: err}
		}
		return rows, nil
	default:
		return nil, ErrUnsupportedFileType
	}
}

// decodeCSV parses comma-delimited data in header-row mode.
func decodeCSV(data []byte) ([]RawRow, error) {
	data = sanitizeUTF8(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty file")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	var rows []RawRow
	for _, record := range records[1:] {
		if isEmptyRecord(record) {
			continue
		}
		rows = append(rows, recordToRow(header, record, TextCell))
	}
	return rows, nil
}

// decodeWorkbook reads an Excel-family binary workbook and converts its
// first sheet to the same row-record shape the CSV branch produces.
func decodeWorkbook(data []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty file")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	var rows []RawRow
	for _, record := range records[1:] {
		if isEmptyRecord(record) {
			continue
		}
		rows = append(rows, recordToRow(header, record, workbookCell))
	}
	return rows, nil
}

// recordToRow maps one positional record onto its headers using toCell to
// tag each raw value. CSV cells stay textual; workbook cells that look
// numeric become number Cells, matching how workbook cells carry their type.
func recordToRow(header []string, record []string, toCell func(string) Cell) RawRow {
	row := make(RawRow, len(header))
	for i, name := range header {
		if name == "" || i >= len(record) {
			continue
		}
		row[name] = toCell(record[i])
	}
	return row
}

// workbookCell converts one raw workbook cell string into a tagged scalar.
func workbookCell(s string) Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Cell{}
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return NumberCell(n)
	}
	return TextCell(s)
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sanitizeUTF8 replaces invalid byte sequences with the Unicode replacement
// character so the CSV reader never chokes on mixed encodings.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
