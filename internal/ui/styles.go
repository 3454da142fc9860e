// Package ui provides terminal styling for ladder CLI output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import "github.com/charmbracelet/lipgloss"

// Ayu palette, adaptive per terminal background.
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
var (
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}
)

var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
)

// Outcome icons. Every recap line starts with one of these so a run can
// be scanned for failures at a glance.
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconSkip = "-"
	IconInfo = "ℹ"
)

// icon returns the glyph, or its ASCII stand-in when glyphs are
// unsuitable (LADDER_NO_EMOJI or piped output).
func icon(glyph, ascii string) string {
	if ShouldUseEmoji() {
		return glyph
	}
	return ascii
}

// SeparatorLight divides the per-parent recap from the totals line.
const SeparatorLight = "──────────────────────────────────────────"

// RenderMuted renders secondary detail (URLs, issue keys) in gray.
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderAccent renders emphasized text in the accent blue.
func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

// RenderSeparator renders the light separator line in muted color.
func RenderSeparator() string {
	return MutedStyle.Render(SeparatorLight)
}

// RenderPassIcon renders the pass icon with styling.
func RenderPassIcon() string {
	return PassStyle.Render(icon(IconPass, "+"))
}

// RenderWarnIcon renders the warning icon with styling.
func RenderWarnIcon() string {
	return WarnStyle.Render(icon(IconWarn, "!"))
}

// RenderFailIcon renders the fail icon with styling.
func RenderFailIcon() string {
	return FailStyle.Render(icon(IconFail, "x"))
}

// RenderSkipIcon renders the skip icon with styling.
func RenderSkipIcon() string {
	return MutedStyle.Render(IconSkip)
}

// RenderInfoIcon renders the info icon with styling.
func RenderInfoIcon() string {
	return AccentStyle.Render(icon(IconInfo, "i"))
}
