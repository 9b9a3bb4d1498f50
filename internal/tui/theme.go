package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"sortable-list/internal/sortable"
)

// Colors stay readable on light and dark terminals.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      = ac("240", "243")
	colorAccent     = ac("27", "62")
	colorAccentFg   = ac("255", "235")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorSurfaceFg  = ac("235", "252")
	colorErrorFg    = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(colorMuted)
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

func styleBadge() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent).Bold(true).Padding(0, 1)
}

// listStyles picks the row styles and the two hex colors the dragged row fades between.
func listStyles() sortable.Styles {
	st := sortable.DefaultStyles()
	st.Selected = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	if lipgloss.HasDarkBackground() {
		st.Foreground, st.Background = lipgloss.Color("#d0d0d0"), lipgloss.Color("#262626")
	} else {
		st.Foreground, st.Background = lipgloss.Color("#262626"), lipgloss.Color("#ffffff")
	}
	return st
}

// applyColorProfilePreference sets the Lip Gloss color profile for the TUI. Only NO_COLOR
// is honored; CLICOLOR would otherwise switch colors off inside the alt screen.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	term := strings.ToLower(os.Getenv("TERM"))
	switch {
	case profile == termenv.Ascii:
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		profile = termenv.TrueColor
	case profile == termenv.ANSI && strings.Contains(term, "256color"):
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}
