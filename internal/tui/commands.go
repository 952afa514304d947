package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mobil-koeln/scrollfeed/internal/models"
	"github.com/mobil-koeln/scrollfeed/internal/pager"
)

const apiTimeout = 10 * time.Second

// fetchPage returns a tea.Cmd that issues req and reports the items.
func fetchPage(p *pager.Pager, req models.PageRequest, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return pageResultMsg{
			req:   req,
			items: p.Fetch(ctx, req),
		}
	}
}
