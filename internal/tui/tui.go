package tui

import (
	"sortable-list/internal/sortable"
	"sortable-list/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type Options struct {
	Store      store.Store
	Properties sortable.Properties
	// Glyphs is "unicode" or "ascii".
	Glyphs string
	Log    zerolog.Logger
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyGlyphPreference(opts.Glyphs)

	m := newAppModel(opts.Store, opts.Properties, opts.Log)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
