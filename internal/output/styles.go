package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette — named constants for all ANSI 256 colors used in the CLI.
// These are the single source of truth; never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: package names, stage names, profile paths.
	ColorCyan = lipgloss.Color("14")

	// colorGreen is used for the "resolved" stage status (bright, high-visibility).
	colorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "overridden" stage status and position markers (line:col).
	ColorYellow = lipgloss.Color("220")

	// colorRed is used for the "removed" stage status.
	colorRed = lipgloss.Color("196")

	// colorBoldRed is used for the "failed" status (matches ERROR level).
	colorBoldRed = lipgloss.Color("204")

	// colorGreenCheck is used for the completion checkmark (✔).
	colorGreenCheck = lipgloss.Color("10")

	// colorDimGray is used for borders and other structural chrome.
	colorDimGray = lipgloss.Color("240")
)

// Semantic styles — map domain concepts to visual presentation.
var (
	// styleNoun styles identifiable nouns (package names, stage names, profile paths).
	styleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// styleDim styles structural chrome (scope prefixes, separators, timestamps).
	styleDim = lipgloss.NewStyle().Faint(true)
)

// Styles bundles the named styles used by multi-section renderers (the
// diff renderer, the file tree) that need more than one semantic color
// at once.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
}

// GetStyles returns the default color-enabled style bundle.
func GetStyles() *Styles {
	return &Styles{
		Success: lipgloss.NewStyle().Foreground(colorGreen),
		Error:   lipgloss.NewStyle().Foreground(colorRed),
		Warning: lipgloss.NewStyle().Foreground(ColorYellow),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   styleDim,
	}
}

// NoColorStyles returns a style bundle with every style a no-op, for
// tests and for output piped to a non-terminal.
func NoColorStyles() *Styles {
	return &Styles{
		Success: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
	}
}

// Stage status constants.
const (
	StatusResolved   = "resolved"
	StatusOverridden = "overridden"
	StatusUnchanged  = "unchanged"
	StatusRemoved    = "removed"
	StatusValid      = "valid"
	statusFailed     = "failed"
)

// statusStyle returns the lipgloss style for a given stage status string.
// Unknown statuses return an unstyled default.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusResolved:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case StatusValid:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case StatusOverridden:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusUnchanged:
		return lipgloss.NewStyle().Faint(true)
	case StatusRemoved:
		return lipgloss.NewStyle().Foreground(colorRed)
	case statusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minStageColumnWidth is the minimum width for the stage path column
// before the status suffix. This ensures status words align consistently.
const minStageColumnWidth = 48

// FormatStageLine renders a package/stage identifier with a right-aligned,
// color-coded status suffix.
//
// Format: s:<package>/<stage>  <status>
//
// The "s:" prefix is dim, the path is cyan, and the status uses statusStyle.
func FormatStageLine(pkg, stage, status string) string {
	path := fmt.Sprintf("%s/%s", pkg, stage)

	padding := minStageColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	prefix := styleDim.Render("s:")
	styledPath := styleNoun.Render(path)
	styledStatus := statusStyle(status).Render(status)

	return prefix + styledPath + strings.Repeat(" ", padding) + styledStatus
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatNotice renders a yellow arrow with a message for action-required output.
// Use this for "next steps" guidance where user action is needed.
func FormatNotice(msg string) string {
	arrow := lipgloss.NewStyle().Foreground(ColorYellow).Render("▶")
	return arrow + " " + msg
}

// FormatPackageRef formats a package@profile reference for display by replacing
// the first "@" with " - " for readability.
//
// Example: "foo@base" → "foo - base"
func FormatPackageRef(ref string) string {
	return strings.Replace(ref, "@", " - ", 1)
}

// FormatInheritMatch renders a package's resolved parent line.
//
// Format: ▸ <package> ← <parent>
//
// The bullet and package name are cyan. The arrow and parent are dim.
func FormatInheritMatch(pkg, parent string) string {
	bullet := styleNoun.Render("▸")
	name := styleNoun.Render(pkg)
	arrow := styleDim.Render("←")
	styledParent := styleDim.Render(parent)
	return bullet + " " + name + " " + arrow + " " + styledParent
}

// FormatPackageUnresolved renders an unresolved package line.
//
// Format: ▸ <package> (no matching package file)
//
// The bullet is yellow. The package name is unstyled. The parenthetical is dim.
func FormatPackageUnresolved(pkg string) string {
	bullet := lipgloss.NewStyle().Foreground(ColorYellow).Render("▸")
	detail := styleDim.Render("(no matching package file)")
	return bullet + " " + pkg + " " + detail
}

// vetCheckColumnWidth is the alignment column for detail text in FormatVetCheck.
const vetCheckColumnWidth = 34

// FormatVetCheck renders a validation check result with a green checkmark, label,
// and optional right-aligned detail text.
//
// Format: ✔ <label>                      <detail>
//
// The checkmark is green. The detail text (if provided) is dim/faint and
// right-aligned at column 34 from the start of the label. If detail is empty,
// no trailing whitespace is added.
func FormatVetCheck(label, detail string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	result := check + " " + label

	if detail != "" {
		padding := vetCheckColumnWidth - len(label)
		if padding < 2 {
			padding = 2
		}
		styledDetail := styleDim.Render(detail)
		result += strings.Repeat(" ", padding) + styledDetail
	}

	return result
}
