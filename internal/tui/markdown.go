package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle is avoided: it queries the terminal and
	// can block.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()

	styleName := markdownStyle()
	key := styleName + ":" + strconv.Itoa(width)
	r := mdRenderers[key]
	if r == nil {
		cfg := markdownStyleConfig(styleName)
		zero := uint(0)
		cfg.Document.Margin = &zero
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(styleName string) ansi.StyleConfig {
	var cfg ansi.StyleConfig
	if styleName == "light" {
		cfg = styles.LightStyleConfig
	} else {
		cfg = styles.DarkStyleConfig
	}
	text := mdColor(colorSurfaceFg, styleName)
	cfg.Text.Color = text
	cfg.Heading.Color = text
	cfg.H1.Color = text
	cfg.H2.Color = text
	cfg.Code.Color = text
	cfg.Strong.Color = nil
	return cfg
}

func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SORTABLE_TUI_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// COLORFGBG is "fg;bg"; xterm colors 7-15 are light.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil && bg >= 0 {
			if bg >= 7 {
				return "light"
			}
			return "dark"
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func mdColor(c lipgloss.AdaptiveColor, styleName string) *string {
	s := c.Dark
	if styleName == "light" {
		s = c.Light
	}
	return &s
}

const helpMarkdown = `# Sortable list

Pick a row up, carry it to its new slot, drop it. The new order is saved when the row is dropped.

| key | action |
| --- | --- |
| ` + "`space`" + ` | pick up / drop the selected row |
| ` + "`up` `down`" + ` | move the cursor, or the held row |
| ` + "`esc`" + ` | put the held row back where it was |
| ` + "`K` `J`" + ` | move the selected row one slot |
| ` + "`a`" + ` | add a row |
| ` + "`x`" + ` | remove the selected row |
| ` + "`d`" + ` | turn dragging on or off |
| ` + "`r`" + ` | reload from disk |
| ` + "`q`" + ` | quit |

Rows can also be dragged with the mouse.`
