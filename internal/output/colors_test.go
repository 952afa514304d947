package output

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mobil-koeln/scrollfeed/internal/testutil"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input string
		want  ColorMode
	}{
		{"always", ColorAlways},
		{"never", ColorNever},
		{"auto", ColorAuto},
		{"", ColorAuto},
		{"invalid", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			testutil.AssertEqual(t, ParseColorMode(tt.input), tt.want)
		})
	}
}

func TestNewColors_NeverMode(t *testing.T) {
	c := NewColors(ColorNever)

	testutil.AssertEqual(t, c.Index("42"), "42")
	testutil.AssertEqual(t, c.Item("1.2.3.4"), "1.2.3.4")
	testutil.AssertEqual(t, c.Header("Items"), "Items")
	testutil.AssertEqual(t, c.Muted("details"), "details")
	testutil.AssertEqual(t, c.Error("boom"), "boom")
}

func TestNewColors_NeverModeAfterForcedColors(t *testing.T) {
	oldNoColor := color.NoColor
	t.Cleanup(func() { color.NoColor = oldNoColor })

	// ColorAlways flips the global switch; plain output must not care
	_ = NewColors(ColorAlways)
	c := NewColors(ColorNever)

	testutil.AssertEqual(t, c.Muted("%d items", 3), "3 items")
}

func TestNewColors_AlwaysMode(t *testing.T) {
	oldNoColor := color.NoColor
	t.Cleanup(func() { color.NoColor = oldNoColor })

	c := NewColors(ColorAlways)

	// ANSI escape sequences start with \033[
	result := c.Item("1.2.3.4")
	testutil.AssertContains(t, result, "\033[")
	testutil.AssertEqual(t, stripANSI(result), "1.2.3.4")

	result = c.Error("boom")
	testutil.AssertContains(t, result, "\033[")
	testutil.AssertEqual(t, stripANSI(result), "boom")
}

func TestColors_Sprintf(t *testing.T) {
	c := NewColors(ColorNever)

	testutil.AssertEqual(t, c.Index("%*d", 4, 7), "   7")
	testutil.AssertEqual(t, c.Muted("%d items", 3), "3 items")
	// A bare format is not interpreted
	testutil.AssertEqual(t, c.Item("100%"), "100%")
}

func TestUseColor(t *testing.T) {
	oldNoColor := color.NoColor
	t.Cleanup(func() { color.NoColor = oldNoColor })

	f, err := os.CreateTemp(t.TempDir(), "out")
	testutil.AssertNil(t, err)
	defer f.Close()

	// A regular file is never a terminal
	testutil.AssertFalse(t, useColor(ColorAuto, f))
	testutil.AssertFalse(t, useColor(ColorNever, f))
	testutil.AssertTrue(t, useColor(ColorAlways, f))
}

// stripANSI removes SGR escape sequences
func stripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}
