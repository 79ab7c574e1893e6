// Package style provides the colors and icons shared by terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
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
	Tilde   = "~"
	Dot     = "●"
)

// Header is the style of labels and column headings.
func Header(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Bold(true).Foreground(Iris)
}

// Muted is the style of secondary values.
func Muted(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Foreground(Slate)
}

// Status renders ok in green with a check mark, or in red with a cross.
func Status(r *lipgloss.Renderer, ok bool, text string) string {
	if ok {
		return r.NewStyle().Foreground(Green).Render(Check + " " + text)
	}
	return r.NewStyle().Foreground(Red).Render(Cross + " " + text)
}
