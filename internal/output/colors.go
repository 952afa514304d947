package output

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode represents the color output mode
type ColorMode int

const (
	// ColorAuto enables colors if output is a TTY
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever disables colors
	ColorNever
)

// Colors holds the color functions for the parts of an item listing
type Colors struct {
	Index  func(format string, a ...interface{}) string
	Item   func(format string, a ...interface{}) string
	Header func(format string, a ...interface{}) string
	Muted  func(format string, a ...interface{}) string
	Error  func(format string, a ...interface{}) string
}

// NewColors creates a new Colors instance based on the color mode
func NewColors(mode ColorMode) *Colors {
	if !useColor(mode, os.Stdout) {
		return &Colors{
			Index:  plain,
			Item:   plain,
			Header: plain,
			Muted:  plain,
			Error:  plain,
		}
	}

	return &Colors{
		Index:  color.New(color.FgHiBlack).SprintfFunc(),
		Item:   color.New(color.FgCyan).SprintfFunc(),
		Header: color.New(color.FgWhite, color.Bold).SprintfFunc(),
		Muted:  color.New(color.FgHiBlack).SprintfFunc(),
		Error:  color.New(color.FgRed, color.Bold).SprintfFunc(),
	}
}

// useColor reports whether output written to f should be colored
func useColor(mode ColorMode, f *os.File) bool {
	switch mode {
	case ColorAlways:
		color.NoColor = false
		return true
	case ColorNever:
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// plain formats without escape codes; a bare format is returned as is
func plain(format string, a ...interface{}) string {
	if len(a) == 0 {
		return format
	}
	return fmt.Sprintf(format, a...)
}

// ParseColorMode parses a color mode string
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}
