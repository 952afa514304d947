package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mobil-koeln/scrollfeed/internal/scrollsync"
	"github.com/mobil-koeln/scrollfeed/internal/testutil"
)

func TestModel_View_BeforeSize(t *testing.T) {
	m := New(&stubSource{}, DefaultConfig())
	testutil.AssertEqual(t, m.View(), "Loading...")
}

func TestModel_View_Empty(t *testing.T) {
	m, _ := newTestModel(0)

	output := m.View()
	testutil.AssertContains(t, output, "SCROLLFEED")
	testutil.AssertContains(t, output, "No items.")
	testutil.AssertContains(t, output, "0 items")
}

func TestModel_View_WithItems(t *testing.T) {
	m, _ := loaded(t, 1000)

	output := m.View()
	testutil.AssertContains(t, output, "item-0")
	testutil.AssertContains(t, output, "item-20")
	testutil.AssertNotContains(t, output, "item-21")
	testutil.AssertContains(t, output, "50 items")
	testutil.AssertContains(t, output, "next 50")
	testutil.AssertContains(t, output, "quit")
	testutil.AssertNotContains(t, output, "Loading items")
}

func TestModel_View_Scrolled(t *testing.T) {
	m, _ := loaded(t, 1000)
	m.feed.scrollTo(10)

	output := m.View()
	testutil.AssertNotContains(t, output, "   9  item-9 ")
	testutil.AssertContains(t, output, "item-10")
	testutil.AssertContains(t, output, "item-30")
}

func TestModel_View_Loading(t *testing.T) {
	m, _ := loaded(t, 1000)
	m, _ = update(m, keyMsg("end"))

	output := m.View()
	testutil.AssertContains(t, output, "Loading items")
	// Items stay on screen while the next page loads
	testutil.AssertContains(t, output, "item-49")
}

func TestModel_View_EndReached(t *testing.T) {
	m, _ := loaded(t, 30)

	output := m.View()
	testutil.AssertContains(t, output, "30 items")
	testutil.AssertContains(t, output, "end reached")
}

func TestModel_View_Source(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source = "http://localhost:8080/cache/ips"
	m := New(&stubSource{}, cfg)
	m, _ = update(m, tea.WindowSizeMsg{Width: 80, Height: 10})

	testutil.AssertContains(t, m.View(), "http://localhost:8080/cache/ips")
}

func TestModel_View_Scrollbar(t *testing.T) {
	m, _ := loaded(t, 1000)

	lines := strings.Split(m.View(), "\n")
	// Header, 21 list rows, loading line, status bar
	list := lines[1 : 1+21]

	thumb := 0
	for _, line := range list {
		if strings.HasSuffix(line, thumbRune) {
			thumb++
		} else {
			testutil.AssertTrue(t, strings.HasSuffix(line, trackRune))
		}
	}

	// 21 of 50 rows visible: a 9-row thumb at the top
	testutil.AssertEqual(t, thumb, 9)
	testutil.AssertTrue(t, strings.HasSuffix(list[0], thumbRune))
}

func TestModel_View_NarrowWindow(t *testing.T) {
	m, _ := loaded(t, 1000)
	m, _ = update(m, tea.WindowSizeMsg{Width: 6, Height: 10})

	// Must not panic and rows must fit
	output := m.View()
	testutil.AssertTrue(t, len(output) > 0)
}

func TestThumbRows(t *testing.T) {
	tests := []struct {
		name      string
		thumb     scrollsync.Thumb
		track     int
		wantStart int
		wantEnd   int
	}{
		{"no thumb", scrollsync.Thumb{}, 20, 0, 0},
		{"full track", scrollsync.Thumb{Height: 20}, 20, 0, 20},
		{"top", scrollsync.Thumb{Height: 4, Top: 0}, 20, 0, 4},
		{"bottom", scrollsync.Thumb{Height: 4, Top: 16}, 20, 16, 20},
		{"rounded", scrollsync.Thumb{Height: 4.4, Top: 7.6}, 20, 8, 12},
		{"sub-row thumb", scrollsync.Thumb{Height: 0.2, Top: 19.8}, 20, 19, 20},
		{"oversized", scrollsync.Thumb{Height: 30, Top: 0}, 20, 0, 20},
		{"empty track", scrollsync.Thumb{Height: 4}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := thumbRows(tt.thumb, tt.track)
			testutil.AssertEqual(t, start, tt.wantStart)
			testutil.AssertEqual(t, end, tt.wantEnd)
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"1.2.3.4", 20, "1.2.3.4"},
		{"1.2.3.4", 7, "1.2.3.4"},
		{"203.0.113.7", 6, "203.0~"},
		{"abcdef", 3, "abc"},
		{"abc", 0, ""},
		{"日本語テキスト", 6, "日本~"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			testutil.AssertEqual(t, truncate(tt.input, tt.width), tt.want)
		})
	}
}
