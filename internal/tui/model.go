package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/mobil-koeln/scrollfeed/internal/logging"
	"github.com/mobil-koeln/scrollfeed/internal/pager"
	"github.com/mobil-koeln/scrollfeed/internal/scrollsync"
)

// Rows taken by everything but the list pane: header, loading line, status bar
const chromeHeight = 3

// Config holds the TUI settings, in terminal rows
type Config struct {
	PageSize        int
	ScrollThreshold int
	MinThumb        int
	Timeout         time.Duration

	// Source is shown in the header
	Source string
}

// DefaultConfig returns the settings used when none are given
func DefaultConfig() Config {
	return Config{
		PageSize:        pager.DefaultPageSize,
		ScrollThreshold: 3,
		MinThumb:        1,
		Timeout:         apiTimeout,
	}
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Retry    key.Binding
	Quit     key.Binding
}

// ShortHelp returns the bindings listed in the status bar
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.End, k.Retry, k.Quit}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", " ", "f"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "load more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	cfg    Config
	feed   *feed
	pager  *pager.Pager
	sync   *scrollsync.Sync
	logger zerolog.Logger

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width  int
	height int
}

// New creates a new TUI model paging items from source.
func New(source pager.PageSource, cfg Config) Model {
	if cfg.Timeout <= 0 {
		cfg.Timeout = apiTimeout
	}

	f := newFeed()
	p := pager.New(source, cfg.PageSize,
		pager.WithIndicator(f),
		pager.WithLogger(logging.NewLogger("pager")),
	)
	f.pager = p

	sync := scrollsync.New(scrollsync.Config{
		MinThumbHeight: float64(cfg.MinThumb),
		Threshold:      float64(cfg.ScrollThreshold),
	}, f, f, f)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleLoading

	return Model{
		cfg:     cfg,
		feed:    f,
		pager:   p,
		sync:    sync,
		logger:  logging.NewLogger("tui"),
		spinner: s,
		help:    help.New(),
		keys:    defaultKeyMap(),
	}
}

// Init requests the first page.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		return initialFetchMsg{}
	}
}

// Items returns the items loaded so far
func (m Model) Items() []string {
	return m.feed.items
}

// listWidth returns the width of the list pane without the scrollbar column
func (m Model) listWidth() int {
	w := m.width - 1
	if w < 0 {
		return 0
	}
	return w
}
