package tui

import (
	"github.com/mobil-koeln/scrollfeed/internal/models"
)

// initialFetchMsg asks for the first page once the program starts.
type initialFetchMsg struct{}

// pageResultMsg carries a settled page back to the model.
// Fetch failures arrive as an empty page.
type pageResultMsg struct {
	req   models.PageRequest
	items []string
}
