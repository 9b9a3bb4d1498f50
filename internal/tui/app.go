package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sortable-list/internal/sortable"
	"sortable-list/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeHelp
)

// listTop is the screen row of the first list line: header, rule, list.
const listTop = 2

const storeTimeout = 5 * time.Second

type reloadTickMsg struct{}

type entriesLoadedMsg struct {
	entries []store.Entry
	// selectID moves the cursor to that entry once the list is shown.
	selectID string
	err      error
}

type storeWriteMsg struct {
	what     string
	selectID string
	err      error
}

type appKeyMap struct {
	list sortable.KeyMap

	Add        key.Binding
	Remove     key.Binding
	ToggleDrag key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultAppKeyMap(list sortable.KeyMap) appKeyMap {
	return appKeyMap{
		list:       list,
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Remove:     key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		ToggleDrag: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "drag on/off")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k appKeyMap) ShortHelp() []key.Binding {
	return append(k.list.ShortHelp(), k.Add, k.ToggleDrag, k.Help, k.Quit)
}

func (k appKeyMap) FullHelp() [][]key.Binding {
	return append(k.list.FullHelp(), []key.Binding{k.Add, k.Remove, k.ToggleDrag}, []key.Binding{k.Reload, k.Help, k.Quit})
}

type appModel struct {
	store store.Store
	log   zerolog.Logger

	width  int
	height int

	mode  mode
	list  sortable.Model[store.Entry]
	keys  appKeyMap
	help  help.Model
	input textinput.Model

	// entries is the last list read from the store.
	entries []store.Entry
	// dragging is written by the list's dragging hook.
	dragging *bool
	// writes counts store writes in flight; reload ticks wait for them.
	writes int

	status    string
	statusErr bool

	lastModTime time.Time
	initialID   string
}

func newAppModel(s store.Store, props sortable.Properties, log zerolog.Logger) appModel {
	dragging := false
	st, err := s.LoadTUIState(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("load tui state")
		st = &store.TUIState{}
	}
	if st.DragDisabled {
		props.DragEnabled = false
	}

	list := sortable.New(renderEntry, nil,
		sortable.WithProperties[store.Entry](props),
		sortable.WithStyles[store.Entry](listStyles()),
		sortable.WithLogger[store.Entry](log),
		sortable.WithItemCallback(sortable.Callback[store.Entry]{
			ItemsTheSame:    func(a, b store.Entry) bool { return a.ID == b.ID },
			ContentsTheSame: func(a, b store.Entry) bool { return a.Title == b.Title },
		}),
		sortable.WithOnDraggingChange[store.Entry](func(d bool) { dragging = d }),
	)
	list.SetTop(listTop)

	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "Title"
	in.CharLimit = 256
	in.Width = 48

	return appModel{
		store:     s,
		log:       log,
		list:      list,
		keys:      defaultAppKeyMap(list.KeyMap),
		help:      help.New(),
		input:     in,
		dragging:  &dragging,
		initialID: st.SelectedID,
	}
}

func renderEntry(_ int, e store.Entry, st sortable.RowState) string {
	handle := glyphHandle()
	if st.Dragged {
		handle = glyphHandleHeld()
	}
	return " " + handle + " " + e.Title
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.loadEntries(m.initialID), tickReload())
}

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func (m appModel) loadEntries(selectID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entries, err := s.List(ctx)
		return entriesLoadedMsg{entries: entries, selectID: selectID, err: err}
	}
}

// write runs fn against the store off the event loop.
func (m *appModel) write(what, selectID string, fn func(ctx context.Context, s store.Store) (string, error)) tea.Cmd {
	m.writes++
	s := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		id, err := fn(ctx, s)
		if id != "" {
			selectID = id
		}
		return storeWriteMsg{what: what, selectID: selectID, err: err}
	}
}

func (m *appModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *appModel) setError(err error) {
	m.status, m.statusErr = err.Error(), true
}

func (m *appModel) resize() {
	h := m.height - listTop - 2
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width, h)
	m.help.Width = m.width
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case reloadTickMsg:
		var cmd tea.Cmd
		if mt := m.store.ModTime(); m.writes == 0 && !mt.Equal(m.lastModTime) {
			m.lastModTime = mt
			cmd = m.loadEntries("")
		}
		return m, tea.Batch(cmd, tickReload())

	case entriesLoadedMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("load entries")
			m.setError(msg.err)
			return m, nil
		}
		m.entries = msg.entries
		if msg.selectID == "" {
			return m, m.list.SetItems(msg.entries)
		}
		m.list.SetItemsSync(msg.entries)
		for i, e := range msg.entries {
			if e.ID == msg.selectID {
				m.list.Select(i)
				break
			}
		}
		return m, nil

	case storeWriteMsg:
		m.writes--
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("op", msg.what).Msg("store write")
			m.setError(msg.err)
		} else {
			m.log.Debug().Str("op", msg.what).Msg("store write")
		}
		m.lastModTime = m.store.ModTime()
		return m, m.loadEntries(msg.selectID)

	case sortable.PlacementChangedMsg:
		if msg.ListID != m.list.ID() {
			return m, nil
		}
		m.entries = moveEntry(m.entries, msg.From, msg.To)
		m.setStatus(fmt.Sprintf("moved %d %s %d", msg.From+1, glyphArrow(), msg.To+1))
		from, to := msg.From, msg.To
		return m, m.write("move", "", func(ctx context.Context, s store.Store) (string, error) {
			return "", s.Move(ctx, from, to)
		})

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeHelp:
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			m.mode = modeList
			return m, nil
		}
		if cmd, ok := m.handleAppKey(msg); ok {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *appModel) handleAppKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keys.Quit) {
		m.saveState()
		return tea.Quit, true
	}
	if *m.dragging {
		return nil, false
	}
	switch {
	case key.Matches(msg, m.keys.ToggleDrag):
		on := !m.list.DragEnabled()
		m.list.SetDragEnabled(on)
		if on {
			m.setStatus("dragging on")
		} else {
			m.setStatus("dragging off")
		}
		m.saveState()
		return nil, true
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Focus()
		return nil, true
	case key.Matches(msg, m.keys.Remove):
		e, ok := m.list.SelectedItem()
		if !ok {
			return nil, true
		}
		m.setStatus("removed " + e.Title)
		id := e.ID
		return m.write("remove", "", func(ctx context.Context, s store.Store) (string, error) {
			return "", s.Remove(ctx, id)
		}), true
	case key.Matches(msg, m.keys.Reload):
		m.lastModTime = m.store.ModTime()
		return m.loadEntries(""), true
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		return nil, true
	}
	return nil, false
}

func (m appModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode = modeList
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		title := strings.TrimSpace(m.input.Value())
		m.mode = modeList
		m.input.Blur()
		if title == "" {
			m.setError(store.ErrEmptyTitle)
			return m, nil
		}
		m.setStatus("added " + title)
		return m, m.write("add", "", func(ctx context.Context, s store.Store) (string, error) {
			e, err := s.Add(ctx, title)
			return e.ID, err
		})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// saveState persists the drag toggle and the selected entry for the next launch.
func (m *appModel) saveState() {
	st := &store.TUIState{DragDisabled: !m.list.DragEnabled()}
	if e, ok := m.list.SelectedItem(); ok {
		st.SelectedID = e.ID
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := m.store.SaveTUIState(ctx, st); err != nil {
		m.log.Warn().Err(err).Msg("save tui state")
	}
}

// moveEntry returns entries with the entry at from moved to to.
func moveEntry(entries []store.Entry, from, to int) []store.Entry {
	if from < 0 || from >= len(entries) || to < 0 || to >= len(entries) || from == to {
		return entries
	}
	out := append([]store.Entry(nil), entries...)
	e := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]store.Entry{e}, out[to:]...)...)
	return out
}

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.mode == modeHelp {
		return renderMarkdown(helpMarkdown, min(m.width, 80)) + "\n\n" + styleMuted().Render("press any key")
	}

	header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Sortable  %s  %d items", m.store.Dir, len(m.entries)))
	if *m.dragging {
		header += "  " + styleBadge().Render("dragging")
	} else if !m.list.DragEnabled() {
		header += "  " + styleMuted().Render("drag off")
	}

	var footer string
	switch {
	case m.mode == modeAdd:
		footer = "Add: " + m.input.View()
	case m.status != "":
		st := styleMuted()
		if m.statusErr {
			st = lipgloss.NewStyle().Foreground(colorErrorFg)
		}
		footer = st.Render(m.status) + "\n" + m.help.View(m.keys)
	default:
		footer = "\n" + m.help.View(m.keys)
	}
	if len(m.entries) == 0 && m.list.Len() == 0 {
		empty := styleMuted().Render("No items. Press a to add one.")
		return strings.Join([]string{header, empty, footer}, "\n\n")
	}
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), m.width))
	return header + "\n" + rule + "\n" + m.list.View() + "\n" + footer
}
