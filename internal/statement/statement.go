// Package statement normalizes raw bank-statement files (CSV or OFX) into a
// canonical list of line items plus a list of non-fatal row errors. Parsing is
// tolerant: a malformed row is reported and skipped, it never aborts the file.
package statement

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Format identifies a supported statement file format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatOFX Format = "ofx"
)

// Kind is the signed-magnitude direction of a statement line.
type Kind string

const (
	KindCredit Kind = "credit"
	KindDebit  Kind = "debit"
)

// Line is one normalized statement entry. Amount is the absolute value
// rounded to two decimals; Kind carries the sign.
type Line struct {
	Date        time.Time
	Description string
	Document    string
	Reference   string
	Kind        Kind
	Amount      decimal.Decimal
	Balance     *decimal.Decimal
	Raw         map[string]string
}

// RowError describes one source row (or the whole file, when Line is zero)
// that could not be normalized.
type RowError struct {
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
	Raw     string `json:"raw,omitempty"`
}

// Normalize parses raw statement bytes in the given format. Valid lines are
// returned in source order; per-row failures are collected as RowErrors.
func Normalize(format Format, data []byte) ([]Line, []RowError) {
	if !utf8.Valid(data) {
		return nil, []RowError{{Message: "file content is not valid UTF-8 text"}}
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil, []RowError{{Message: "file has no content to import"}}
	}

	if format == FormatOFX {
		return normalizeOFX(content)
	}
	return normalizeCSV(content)
}

// DetectFormat resolves the statement format from the uploaded file name and
// MIME type. The extension wins; the MIME type is a fallback for browsers
// that upload CSVs as text/plain or spreadsheets.
func DetectFormat(filename, mimeType string) (Format, bool) {
	name := strings.ToLower(strings.TrimSpace(filename))
	mime := strings.ToLower(strings.TrimSpace(mimeType))

	if strings.HasSuffix(name, ".csv") {
		return FormatCSV, true
	}
	if strings.HasSuffix(name, ".ofx") {
		return FormatOFX, true
	}

	if strings.Contains(mime, "csv") || strings.Contains(mime, "excel") || strings.Contains(mime, "text/plain") {
		return FormatCSV, true
	}
	if strings.Contains(mime, "ofx") || strings.Contains(mime, "sgml") || strings.Contains(mime, "xml") {
		return FormatOFX, true
	}

	return "", false
}
