package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors matching the output/colors.go scheme
var (
	colorCyan   = lipgloss.Color("6")  // Cyan - items, thumb
	colorYellow = lipgloss.Color("3")  // Yellow - loading
	colorWhite  = lipgloss.Color("15") // White - header
	colorGray   = lipgloss.Color("8")  // Gray - muted text
)

// Text styles
var (
	styleHeader = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styleItem   = lipgloss.NewStyle()
	styleIndex  = lipgloss.NewStyle().Foreground(colorGray)
	styleMuted  = lipgloss.NewStyle().Foreground(colorGray)
)

// styleDimmed renders the list while a page is in flight
var styleDimmed = lipgloss.NewStyle().Faint(true)

// Scrollbar column
var (
	styleTrack = lipgloss.NewStyle().Foreground(colorGray)
	styleThumb = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	trackRune = "│"
	thumbRune = "┃"
)

// Status bar at the bottom
var styleStatusBar = lipgloss.NewStyle().
	Foreground(colorGray).
	Background(lipgloss.Color("0"))

// Loading indicator
var styleLoading = lipgloss.NewStyle().Foreground(colorYellow).Italic(true)
