// Package parsers provides parsers for importing source reports from
// various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawReport represents a source report parsed from an external file before
// validation.
type RawReport struct {
	ID          string `json:"id,omitempty"`
	Source      string `json:"source"`
	Title       string `json:"title,omitempty"`
	URL         string `json:"url,omitempty"`
	Summary     string `json:"summary"`
	PublishedAt string `json:"published_at,omitempty"` // RFC3339
	LineNum     int    `json:"-"`                      // Line number in source file (set by parser)
}

// Parser defines the interface for parsing source reports from various
// formats.
type Parser interface {
	Parse(r io.Reader) ([]RawReport, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
