package catalog

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// ============================================================================
// MapError Tests
// ============================================================================

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string // expected code
	}{
		{"unsupported type", ErrUnsupportedFileType, "FILE001"},
		{"wrapped unsupported type", fmt.Errorf("%w (got %q)", ErrUnsupportedFileType, "x.txt"), "FILE001"},
		{"decode error", &DecodeError{FileName: "a.csv", Err: errors.New("boom")}, "FILE002"},
		{"no file", errors.New("no file provided"), "FILE003"},
		{"empty file", errors.New("empty file: \"a.csv\""), "FILE004"},
		{"duplicate id", ErrDuplicateID, "PROD001"},
		{"wrapped duplicate id", fmt.Errorf("product %q: %w", "P1", ErrDuplicateID), "PROD001"},
		{"product not found", errors.New("product P9 not found"), "PROD002"},
		{"import busy", ErrImportBusy, "IMP001"},
		{"import not found beats generic not found", ErrImportNotFound, "IMP002"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"case insensitive", errors.New("RATE LIMIT exceeded"), "RATE001"},
		{"unknown falls back", errors.New("something exploded"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := MapError(tt.err)
			if msg.Code != tt.want {
				t.Errorf("MapError(%v).Code = %s, want %s", tt.err, msg.Code, tt.want)
			}
			if msg.Message == "" || msg.Action == "" {
				t.Errorf("MapError(%v) has empty message or action: %+v", tt.err, msg)
			}
		})
	}
}

func TestMapErrorNil(t *testing.T) {
	if msg := MapError(nil); msg != (UserMessage{}) {
		t.Errorf("MapError(nil) = %+v, want zero value", msg)
	}
}

// ============================================================================
// FormatUserError Tests
// ============================================================================

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrDuplicateID)
	if !strings.Contains(got, "PROD001") {
		t.Errorf("FormatUserError() = %q, want the code included", got)
	}
	if !strings.Contains(got, "already exists") {
		t.Errorf("FormatUserError() = %q, want the message included", got)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

// ============================================================================
// DecodeError Tests
// ============================================================================

func TestDecodeErrorUnwrap(t *testing.T) {
	inner := errors.New("bad quoting")
	err := &DecodeError{FileName: "a.csv", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("DecodeError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "a.csv") {
		t.Errorf("Error() = %q, want file name included", err.Error())
	}
}
