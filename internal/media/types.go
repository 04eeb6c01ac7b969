// Package media defines shared types for the uguulink application.
package media

import (
	"fmt"
	"strings"
	"time"
)

// OutputFormat selects the response shape uguu.se returns for an upload.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatCSV   OutputFormat = "csv"
	FormatHTML  OutputFormat = "html"
	FormatGyazo OutputFormat = "gyazo"
)

// DefaultFormat is used when no output format is given.
const DefaultFormat = FormatText

// Formats lists every output format uguu.se understands.
var Formats = []OutputFormat{FormatText, FormatJSON, FormatCSV, FormatHTML, FormatGyazo}

func (f OutputFormat) String() string {
	if f == "" {
		return string(DefaultFormat)
	}
	return string(f)
}

// ParseOutputFormat validates a user-supplied format name.
// Matching is case-insensitive; the empty string maps to the default.
func ParseOutputFormat(s string) (OutputFormat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFormat, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (valid: text, json, csv, html, gyazo)", s)
}

// UploadRecord is a single entry in the upload history.
type UploadRecord struct {
	ID         int64        `json:"id"`          // Row ID assigned by the store
	Path       string       `json:"path"`        // Local file that was uploaded (may be a deleted temp file)
	Format     OutputFormat `json:"format"`      // Output format requested from the endpoint
	Link       string       `json:"link"`        // Link returned by the endpoint
	UploadedAt time.Time    `json:"uploaded_at"` // When the upload finished
}
