// Package output renders restaurantctl messages with terminal styling.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	green  = lipgloss.Color("#10B981")
	red    = lipgloss.Color("#EF4444")
	blue   = lipgloss.Color("#3B82F6")
	grey   = lipgloss.Color("#6B7280")
	violet = lipgloss.Color("#7C3AED")

	okStyle      = lipgloss.NewStyle().Foreground(green).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(red).Bold(true)
	noteStyle    = lipgloss.NewStyle().Foreground(blue)
	ruleStyle    = lipgloss.NewStyle().Foreground(grey)
	headingStyle = lipgloss.NewStyle().Foreground(violet).Bold(true)
)

func line(w io.Writer, marker lipgloss.Style, symbol, format string, args []any) {
	fmt.Fprintf(w, "%s %s\n", marker.Render(symbol), fmt.Sprintf(format, args...))
}

// Success reports a completed step
func Success(w io.Writer, format string, args ...any) {
	line(w, okStyle, "✓", format, args)
}

// Failure reports a failed step
func Failure(w io.Writer, format string, args ...any) {
	line(w, failStyle, "✗", format, args)
}

// Note prints an informational line, such as an empty report
func Note(w io.Writer, format string, args ...any) {
	line(w, noteStyle, "ℹ", format, args)
}

// Heading prints a title underlined to its width
func Heading(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render(title))
	fmt.Fprintln(w, ruleStyle.Render(strings.Repeat("─", lipgloss.Width(title))))
}

// StockIcon marks a product as in stock (filled) or sold out (hollow)
func StockIcon(inStock bool) string {
	if inStock {
		return okStyle.Render("●")
	}
	return failStyle.Render("○")
}
