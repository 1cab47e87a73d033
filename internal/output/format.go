// Package output provides terminal output utilities for the CLI.
package output

import "strings"

// Format specifies how a resolved package document is rendered.
type Format string

const (
	// FormatYAML outputs the resolved document as YAML.
	FormatYAML Format = "yaml"

	// FormatJSON outputs the resolved document as JSON.
	FormatJSON Format = "json"

	// FormatTable outputs a summary table of the resolved stages.
	FormatTable Format = "table"

	// FormatDir writes each resolved document to <package>.yaml under an
	// output directory.
	FormatDir Format = "dir"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Valid reports whether f is one of the recognized formats.
func (f Format) Valid() bool {
	switch f {
	case FormatYAML, FormatJSON, FormatTable, FormatDir:
		return true
	default:
		return false
	}
}

// ParseFormat parses a case-insensitive string into a Format. The second
// return value is false when s does not name a recognized format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, true
	case "json":
		return FormatJSON, true
	case "table":
		return FormatTable, true
	case "dir", "directory":
		return FormatDir, true
	default:
		return Format(s), false
	}
}

// ValidFormats returns the accepted format strings, for flag usage text.
func ValidFormats() []string {
	return []string{"yaml", "json", "table", "dir"}
}
