package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mobil-koeln/scrollfeed/internal/output"
	"github.com/mobil-koeln/scrollfeed/internal/scrollsync"
)

// View renders the entire TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Layout: header + list with scrollbar + loading line + status bar
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderList(),
		m.renderLoadingLine(),
		m.renderStatusBar(),
	)
}

// renderHeader renders the title and the data source address.
func (m Model) renderHeader() string {
	title := styleHeader.Render("SCROLLFEED")
	if m.cfg.Source == "" {
		return title
	}
	source := truncate(m.cfg.Source, m.width-lipgloss.Width(title)-2)
	return title + "  " + styleMuted.Render(source)
}

// renderList renders the visible rows, each followed by its scrollbar cell.
func (m Model) renderList() string {
	f := m.feed
	width := m.listWidth()

	start := f.scrollTop
	end := start + f.viewHeight
	if end > len(f.items) {
		end = len(f.items)
	}
	idxWidth := output.IndexWidth(end - 1)
	thumbStart, thumbEnd := thumbRows(f.thumb, f.viewHeight)

	rows := make([]string, 0, f.viewHeight)
	for r := 0; r < f.viewHeight; r++ {
		var line string
		switch i := start + r; {
		case i < end:
			line = m.renderRow(i, idxWidth, width)
		case r == 0 && len(f.items) == 0 && !f.loading:
			line = styleMuted.Render(runewidth.FillRight(truncate("No items.", width), width))
		default:
			line = strings.Repeat(" ", width)
		}

		bar := styleTrack.Render(trackRune)
		if r >= thumbStart && r < thumbEnd {
			bar = styleThumb.Render(thumbRune)
		}
		rows = append(rows, line+bar)
	}

	return strings.Join(rows, "\n")
}

// renderRow renders item i padded to width. The whole row is faint while a
// page is loading.
func (m Model) renderRow(i, idxWidth, width int) string {
	prefix := fmt.Sprintf("%*d  ", idxWidth, i)
	if len(prefix) >= width {
		prefix = ""
	}
	rest := width - len(prefix)
	item := runewidth.FillRight(truncate(m.feed.items[i], rest), rest)

	if m.feed.loading {
		return styleDimmed.Render(prefix + item)
	}
	return styleIndex.Render(prefix) + styleItem.Render(item)
}

// renderLoadingLine renders the spinner while a page is in flight.
func (m Model) renderLoadingLine() string {
	if !m.feed.loading {
		return ""
	}
	return m.spinner.View() + styleLoading.Render(" Loading items…")
}

// renderStatusBar renders counts and keyboard hints at the bottom.
func (m Model) renderStatusBar() string {
	status := fmt.Sprintf(" %d items  next %d", len(m.feed.items), m.pager.NextOffset())
	if m.feed.endReached() && !m.feed.loading {
		status += "  end reached, scroll to retry"
	}

	h := m.help
	h.Width = m.width - runewidth.StringWidth(status) - 2
	if h.Width < 1 {
		return styleStatusBar.Width(m.width).Render(status)
	}

	return styleStatusBar.Width(m.width).Render(status + "  " + h.ShortHelpView(m.keys.ShortHelp()))
}

// thumbRows maps a thumb onto the rows [start, end) of a track of the given
// height. A visible thumb covers at least one row.
func thumbRows(t scrollsync.Thumb, track int) (int, int) {
	if t.Height <= 0 || track <= 0 {
		return 0, 0
	}

	size := int(math.Round(t.Height))
	if size < 1 {
		size = 1
	}
	if size > track {
		size = track
	}

	start := int(math.Round(t.Top))
	if start+size > track {
		start = track - size
	}
	if start < 0 {
		start = 0
	}
	return start, start + size
}

// truncate truncates a string to the given display width.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "~")
}
