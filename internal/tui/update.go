package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Rows moved per mouse wheel notch
const wheelStep = 3

// Update handles all messages and key events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case initialFetchMsg:
		return m.handleFetchRequest()

	case pageResultMsg:
		return m.handlePageResult(msg)

	case spinner.TickMsg:
		// Let the tick chain die while idle
		if !m.feed.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width

	m.feed.setViewHeight(msg.Height - chromeHeight)
	m.sync.OnResize()
	return m, nil
}

func (m Model) handlePageResult(msg pageResultMsg) (tea.Model, tea.Cmd) {
	// Items go in before the slot is freed so the next request starts after them
	m.feed.appendPage(msg.req, msg.items)
	m.pager.Complete(msg.req, len(msg.items))

	m.logger.Debug().
		Int("offset", msg.req.Offset).
		Int("items", len(msg.items)).
		Int("total", len(m.feed.items)).
		Msg("Page appended")

	m.sync.RecomputeThumb()
	return m, nil
}

// handleFetchRequest asks for a page regardless of the scroll position
func (m Model) handleFetchRequest() (tea.Model, tea.Cmd) {
	m.feed.Prefetch()
	return m, m.dispatch()
}

// handleScroll moves the viewport and treats the move as a scroll event,
// even when the offset was already clamped.
func (m Model) handleScroll(delta int) (tea.Model, tea.Cmd) {
	m.feed.scrollBy(delta)
	m.sync.OnScroll()
	return m, m.dispatch()
}

func (m Model) handleScrollTo(top int) (tea.Model, tea.Cmd) {
	m.feed.scrollTo(top)
	m.sync.OnScroll()
	return m, m.dispatch()
}

// dispatch starts the request parked by a prefetch, if any
func (m Model) dispatch() tea.Cmd {
	req, ok := m.feed.takePending()
	if !ok {
		return nil
	}
	return tea.Batch(
		fetchPage(m.pager, req, m.cfg.Timeout),
		m.spinner.Tick,
	)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.handleScroll(-wheelStep)
	case tea.MouseButtonWheelDown:
		return m.handleScroll(wheelStep)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.feed.viewHeight - 1
	if page < 1 {
		page = 1
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		return m.handleScroll(1)
	case key.Matches(msg, m.keys.Up):
		return m.handleScroll(-1)
	case key.Matches(msg, m.keys.PageDown):
		return m.handleScroll(page)
	case key.Matches(msg, m.keys.PageUp):
		return m.handleScroll(-page)
	case key.Matches(msg, m.keys.Home):
		return m.handleScrollTo(0)
	case key.Matches(msg, m.keys.End):
		return m.handleScrollTo(m.feed.maxScrollTop())
	case key.Matches(msg, m.keys.Retry):
		return m.handleFetchRequest()
	}

	return m, nil
}
