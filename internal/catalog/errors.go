// errors.go defines the error taxonomy for the dashboard and maps technical
// errors to user-friendly messages with codes for support reference.
//
// Taxonomy:
//
//   - ErrUnsupportedFileType: extension is not csv/xlsx/xls; rejected at the
//     boundary before any parse attempt.
//   - DecodeError: the whole file failed to parse (malformed CSV, unreadable
//     workbook); aborts the import with zero store mutation.
//   - Row validation reasons: per-row, one of four fixed strings; captured
//     into the failure list and never abort sibling rows.
//   - ErrDuplicateID: manual add with an existing id; rejected synchronously,
//     never reaches the store's backing sequence.
//   - ErrImportBusy: an import run is already holding the limiter slot.
//
// Error codes are grouped by category:
//
//	FILE001 - Unsupported file type   Patterns: "unsupported file type"
//	FILE002 - Invalid file            Patterns: "decode", "invalid csv"
//	FILE003 - No file                 Patterns: "no file provided"
//	FILE004 - Empty file              Patterns: "empty file"
//	PROD001 - Duplicate product id    Patterns: "already exists"
//	PROD002 - Product not found       Patterns: "not found"
//	IMP001  - Import busy             Patterns: "already in progress"
//	IMP002  - Import session expired  Patterns: "import not found"
//	RATE001 - Rate limited            Patterns: "rate limit"
//	ERR000  - Fallback for anything unmatched
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins, so specific patterns come before general ones.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFileType is returned when the uploaded file's extension is
// not one of csv, xlsx, or xls. The file is never opened in that case.
var ErrUnsupportedFileType = errors.New("unsupported file type: please select a CSV or Excel file")

// ErrDuplicateID is returned by Store.Add when the product's id is already
// present in the collection.
var ErrDuplicateID = errors.New("a product with this ID already exists")

// ErrImportBusy is returned when an import run is already in flight and the
// limiter has no free slot.
var ErrImportBusy = errors.New("an import is already in progress, please wait for it to finish")

// ErrImportNotFound is returned when querying an import run that does not
// exist or whose result has already been discarded.
var ErrImportNotFound = errors.New("import not found")

// DecodeError wraps a whole-file parse failure. A DecodeError aborts the
// entire import; no partial rows are produced.
type DecodeError struct {
	FileName string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.FileName, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Fixed per-row validation reasons, in the order the rules are checked.
// These strings are user-facing and appear verbatim in failure lists.
const (
	ReasonIDRequired    = "ID is required"
	ReasonNameRequired  = "Name is required"
	ReasonBrandRequired = "Brand is required"
	ReasonPriceInvalid  = "Valid price is required"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors (FILE001-FILE004)
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Upload a CSV or Excel (.xlsx/.xls) file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please choose a file to upload",
			Code:    "FILE003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a file with a header row and data rows",
			Code:    "FILE004",
		},
	},
	{
		pattern: "decode",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Check that the file is a valid CSV or Excel workbook and re-export it",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The file is not a valid CSV",
			Action:  "Ensure the file is comma-separated with a header row",
			Code:    "FILE002",
		},
	},

	// Product errors (PROD001-PROD002)
	{
		pattern: "already exists",
		msg: UserMessage{
			Message: "A product with this ID already exists",
			Action:  "Choose a different product ID",
			Code:    "PROD001",
		},
	},
	// Import session errors (IMP001-IMP002). "import not found" must come
	// before the generic "not found" pattern.
	{
		pattern: "already in progress",
		msg: UserMessage{
			Message: "Another import is still running",
			Action:  "Wait for the current import to finish, then retry",
			Code:    "IMP001",
		},
	},
	{
		pattern: "import not found",
		msg: UserMessage{
			Message: "This import session has expired",
			Action:  "Start a new import",
			Code:    "IMP002",
		},
	},
	{
		pattern: "not found",
		msg: UserMessage{
			Message: "The product could not be found",
			Action:  "Refresh the dashboard and try again",
			Code:    "PROD002",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through the known patterns (case-insensitive) and returns the
// first match, falling back to ERR000 when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
