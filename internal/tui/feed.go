package tui

import (
	"github.com/mobil-koeln/scrollfeed/internal/models"
	"github.com/mobil-koeln/scrollfeed/internal/pager"
	"github.com/mobil-koeln/scrollfeed/internal/scrollsync"
)

// feed is the list pane: the items appended so far, the viewport over them
// and the scrollbar thumb. It is shared by every copy of the Model and is
// only touched from Update.
type feed struct {
	items      []string
	scrollTop  int
	viewHeight int
	thumb      scrollsync.Thumb
	loading    bool

	pager   *pager.Pager
	pending *models.PageRequest

	// lastPage is the most recently settled page, nil before any
	lastPage *models.Page
}

func newFeed() *feed {
	return &feed{}
}

// Metrics reports the list geometry in rows
func (f *feed) Metrics() scrollsync.Geometry {
	return scrollsync.Geometry{
		ScrollTop:    float64(f.scrollTop),
		ScrollHeight: float64(len(f.items)),
		ClientHeight: float64(f.viewHeight),
	}
}

// SetThumb stores the thumb drawn in the scrollbar column
func (f *feed) SetThumb(t scrollsync.Thumb) {
	f.thumb = t
}

// SetLoading shows or hides the loading line and dims the list
func (f *feed) SetLoading(loading bool) {
	f.loading = loading
}

// Prefetch claims the pager's slot and parks the request until Update
// dispatches it. It does nothing while a request is in flight.
func (f *feed) Prefetch() {
	if f.pager == nil || f.pending != nil {
		return
	}
	if req, ok := f.pager.Begin(); ok {
		f.pending = &req
	}
}

// takePending returns the parked request, if any, and clears it
func (f *feed) takePending() (models.PageRequest, bool) {
	if f.pending == nil {
		return models.PageRequest{}, false
	}
	req := *f.pending
	f.pending = nil
	return req, true
}

// appendPage adds a settled page to the list
func (f *feed) appendPage(req models.PageRequest, items []string) {
	f.items = append(f.items, items...)
	f.lastPage = &models.Page{Request: req, Items: items}
}

// maxScrollTop returns the largest scroll offset that still fills the view
func (f *feed) maxScrollTop() int {
	top := len(f.items) - f.viewHeight
	if top < 0 {
		return 0
	}
	return top
}

// scrollBy moves the viewport by delta rows, clamped to the content
func (f *feed) scrollBy(delta int) {
	f.scrollTo(f.scrollTop + delta)
}

// scrollTo moves the viewport to top, clamped to the content
func (f *feed) scrollTo(top int) {
	if top > f.maxScrollTop() {
		top = f.maxScrollTop()
	}
	if top < 0 {
		top = 0
	}
	f.scrollTop = top
}

// setViewHeight resizes the viewport and keeps the offset valid
func (f *feed) setViewHeight(h int) {
	if h < 1 {
		h = 1
	}
	f.viewHeight = h
	f.scrollTo(f.scrollTop)
}

// endReached reports whether the last page came back short
func (f *feed) endReached() bool {
	return f.lastPage != nil && f.lastPage.IsShort()
}
