package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the word-wrap width used when none is given.
const DefaultWidth = 80

// RenderTerminal renders Markdown for display in a terminal. When tty is
// false the plain "notty" style is used so no escape codes are emitted.
func RenderTerminal(md string, width int, tty bool) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	style := glamour.WithStandardStyle("notty")
	if tty {
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n") + "\n", nil
}
