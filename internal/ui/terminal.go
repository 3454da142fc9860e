// Package ui provides terminal styling for ladder CLI output.
package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor decides whether styled output is appropriate.
//
// Precedence: NO_COLOR always wins, then CLICOLOR_FORCE forces color on,
// then CLICOLOR=0 turns it off, then the TTY check decides.
// See https://no-color.org and https://bixense.com/clicolors.
func ShouldUseColor() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	if os.Getenv("CLICOLOR_FORCE") != "" && os.Getenv("CLICOLOR_FORCE") != "0" {
		return true
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	return IsTerminal()
}

// ShouldUseEmoji decides whether icon glyphs are appropriate.
// LADDER_NO_EMOJI disables them; otherwise they follow the TTY check.
func ShouldUseEmoji() bool {
	if os.Getenv("LADDER_NO_EMOJI") != "" {
		return false
	}
	return IsTerminal()
}
