// Package style provides the shared color palette and icons used by the
// CLI output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Clay   = lipgloss.Color("#C96442")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
)

// Step renders a pipeline stage header.
var Step = lipgloss.NewStyle().Foreground(Clay).Bold(true)

// Muted renders secondary information such as paths and digests.
var Muted = lipgloss.NewStyle().Foreground(Slate)
