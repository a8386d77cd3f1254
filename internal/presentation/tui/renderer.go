package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// RenderFunc turns markdown into its display form.
type RenderFunc func(markdown string) (string, error)

// NewRenderer returns a glamour renderer with automatic light/dark detection.
func NewRenderer() RenderFunc {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return Plain
	}
	return r.Render
}

// Plain returns markdown unchanged.
func Plain(markdown string) (string, error) {
	return markdown, nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// RendererFor picks glamour for terminals and raw markdown otherwise, so
// piped output stays machine-readable.
func RendererFor(w io.Writer) RenderFunc {
	if IsTerminal(w) {
		return NewRenderer()
	}
	return Plain
}
