package ui

import (
	"os"

	glamour "github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// RenderMarkdown renders markdown text using glamour.
// Returns the rendered markdown or the original text if rendering fails.
// Word wraps at terminal width (or 80 columns if width can't be detected).
func RenderMarkdown(markdown string) string {
	// Skip glamour if colors are disabled
	if !ShouldUseColor() {
		return markdown
	}

	// Cap wrap width at 100 chars for readability
	const maxReadableWidth = 100
	wrapWidth := 80 // default if terminal size unavailable
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		wrapWidth = w
	}
	if wrapWidth > maxReadableWidth {
		wrapWidth = maxReadableWidth
	}

	// Auto style respects terminal light/dark mode
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}

	return rendered
}
