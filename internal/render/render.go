// Package render formats command results for the terminal. Pretty
// output (colors, separators) is used on a TTY; plain output otherwise,
// so piped output stays machine-friendly.
package render

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Renderer handles output formatting.
type Renderer struct {
	pretty bool
}

// New creates a renderer. Pretty formatting is used when stdout is a
// terminal and noColor is unset.
func New(noColor bool) *Renderer {
	pretty := term.IsTerminal(int(os.Stdout.Fd())) && !noColor
	if noColor {
		color.NoColor = true
	}
	return &Renderer{pretty: pretty}
}

// NewPlain creates a renderer with pretty formatting forced off.
func NewPlain() *Renderer {
	return &Renderer{pretty: false}
}

// FormatDuration renders a duration in the h/m form used throughout the
// CLI: "2h 5m", "45m", "0m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// Truncate shortens a string to max length.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
