package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mobil-koeln/scrollfeed/internal/models"
)

// ListOptions configures the item list output
type ListOptions struct {
	Colors *Colors

	// ShowRange prints a muted summary line after the items
	ShowRange bool
}

// RenderItems renders one page of items, each prefixed with its absolute index
func RenderItems(w io.Writer, page models.Page, opts ListOptions) {
	c := opts.Colors
	if c == nil {
		c = NewColors(ColorNever)
	}

	if page.IsEmpty() {
		_, _ = fmt.Fprintln(w, c.Muted("No items in %s.", page.Request))
		return
	}

	width := IndexWidth(page.Request.Offset + page.Len() - 1)
	for i, item := range page.Items {
		_, _ = fmt.Fprintf(w, "%s  %s\n",
			c.Index("%*d", width, page.Request.Offset+i),
			c.Item("%s", item),
		)
	}

	if opts.ShowRange {
		_, _ = fmt.Fprintln(w, c.Muted("%d items, requested %s", page.Len(), page.Request))
	}
}

// RenderJSON writes the page's items as an indented JSON array
func RenderJSON(w io.Writer, page models.Page) error {
	items := page.Items
	if items == nil {
		items = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// RenderError writes err in the error color
func RenderError(w io.Writer, err error, c *Colors) {
	if c == nil {
		c = NewColors(ColorNever)
	}
	_, _ = fmt.Fprintln(w, c.Error("Error: %v", err))
}

// IndexWidth returns the column width needed for indices up to last
func IndexWidth(last int) int {
	width := len(strconv.Itoa(last))
	if width < 4 {
		return 4
	}
	return width
}
