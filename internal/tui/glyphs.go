package tui

import (
	"strings"
	"sync"
)

// Unicode or ASCII glyphs for the row handles and chrome, for fonts that lack the former.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference selects the glyph set by name. Unknown names keep the current set.
func applyGlyphPreference(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphHandle() string     { return pick("⠿", "::") }
func glyphHandleHeld() string { return pick("↕", "<>") }
func glyphArrow() string      { return pick("→", "->") }
func glyphHRule() string      { return pick("─", "-") }
