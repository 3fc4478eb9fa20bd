package cliview

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Renderer renders Markdown for the current terminal, falling back to
// returning the input unchanged when stdout is not a TTY (e.g. piped
// output, CI logs) since glamour's styling is wasted there.
type Renderer func(markdown string) (string, error)

// NewRenderer builds a Renderer bound to glamour's auto-detected terminal
// style.
func NewRenderer() (Renderer, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func(markdown string) (string, error) { return markdown, nil }, nil
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return nil, err
	}
	return func(markdown string) (string, error) { return r.Render(markdown) }, nil
}
