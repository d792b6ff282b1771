// Package export renders persisted extraction rows as CSV or XLSX.
package export

import (
	"strconv"
	"time"

	"taxextract/internal/domain"
)

// Format selects an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat returns the Format for s, defaulting to CSV when s is empty.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, true
	case FormatXLSX:
		return FormatXLSX, true
	}
	return "", false
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// columns defines the header row shared by every format.
var columns = []string{
	"Client ID",
	"Document Name",
	"Document URL",
	"Form Type",
	"Document Index",
	"Field Name",
	"Field Value",
	"Confidence",
	"Status",
	"Access ID",
	"Created At",
}

// extractionToRow converts one row to a len(columns) string slice.
func extractionToRow(e *domain.Extraction) []string {
	return []string{
		e.ClientID,
		e.DocName,
		e.DocURL,
		string(e.DocType),
		strconv.Itoa(e.DocumentIndex),
		e.FieldName,
		derefString(e.FieldValue),
		formatConfidence(e.Confidence),
		string(e.DocStatus),
		e.AccessID,
		e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatConfidence(c *float64) string {
	if c == nil {
		return ""
	}
	return strconv.FormatFloat(*c, 'f', 3, 64)
}
