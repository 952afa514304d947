// Package pager fetches pages of items sequentially from a data source,
// allowing at most one request in flight.
package pager

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/mobil-koeln/scrollfeed/internal/api"
	"github.com/mobil-koeln/scrollfeed/internal/logging"
	"github.com/mobil-koeln/scrollfeed/internal/metrics"
	"github.com/mobil-koeln/scrollfeed/internal/models"
)

// DefaultPageSize is the number of items requested per page
const DefaultPageSize = 50

// PageSource returns the items of a page request
type PageSource interface {
	FetchPage(ctx context.Context, req models.PageRequest) ([]string, error)
}

// Indicator is shown while a request is in flight. Implementations show a
// loading indicator and dim the container on true, and undo both on false.
type Indicator interface {
	SetLoading(loading bool)
}

// State is the pager's position in its Idle/Fetching cycle
type State int

const (
	Idle State = iota
	Fetching
)

func (s State) String() string {
	if s == Fetching {
		return "fetching"
	}
	return "idle"
}

// Pager owns the fetch state: the next offset to request and the
// single in-flight slot.
type Pager struct {
	source    PageSource
	pageSize  int
	indicator Indicator
	logger    zerolog.Logger

	// slot holds one unit while a request is outstanding, including the
	// caller's completion handling.
	slot *semaphore.Weighted

	mu         sync.Mutex
	nextOffset int
	fetching   bool
}

// Option configures the Pager
type Option func(*Pager)

// WithIndicator sets the loading indicator toggled around each request
func WithIndicator(ind Indicator) Option {
	return func(p *Pager) {
		p.indicator = ind
	}
}

// WithLogger sets the logger used for fetch diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pager) {
		p.logger = logger
	}
}

// WithStartOffset starts paging at offset instead of 0
func WithStartOffset(offset int) Option {
	return func(p *Pager) {
		if offset > 0 {
			p.nextOffset = offset
		}
	}
}

// New creates a pager requesting pageSize items at a time.
// A non-positive pageSize falls back to DefaultPageSize.
func New(source PageSource, pageSize int, opts ...Option) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	p := &Pager{
		source:   source,
		pageSize: pageSize,
		logger:   logging.NewLogger("pager"),
		slot:     semaphore.NewWeighted(1),
	}

	for _, opt := range opts {
		opt(p)
	}

	metrics.NextOffset.Set(float64(p.nextOffset))

	return p
}

// PageSize returns the number of items requested per page
func (p *Pager) PageSize() int {
	return p.pageSize
}

// NextOffset returns the index the next request will start at
func (p *Pager) NextOffset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextOffset
}

// Fetching reports whether a request is in flight
func (p *Pager) Fetching() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetching
}

// State returns Fetching while a request is outstanding, otherwise Idle
func (p *Pager) State() State {
	if p.Fetching() {
		return Fetching
	}
	return Idle
}

// Begin claims the in-flight slot and returns the request to issue.
// It returns false without any state change if a request is already in
// flight. A successful Begin must be followed by exactly one Complete.
func (p *Pager) Begin() (models.PageRequest, bool) {
	// The slot and fetching flag change together so State never reports
	// Idle while the slot is held.
	p.mu.Lock()
	if !p.slot.TryAcquire(1) {
		p.mu.Unlock()
		metrics.PageSkipped.Inc()
		p.logger.Debug().Msg("Fetch skipped, request in flight")
		return models.PageRequest{}, false
	}
	p.fetching = true
	req := models.NewPageRequest(p.nextOffset, p.pageSize)
	p.mu.Unlock()

	if p.indicator != nil {
		p.indicator.SetLoading(true)
	}

	return req, true
}

// Fetch issues req against the source. Failures are logged and reported as
// an empty page; Fetch never returns nil. It does not touch pager state and
// may run on any goroutine.
func (p *Pager) Fetch(ctx context.Context, req models.PageRequest) []string {
	start := time.Now()
	items, err := p.source.FetchPage(ctx, req)
	duration := time.Since(start)

	metrics.ObservePage(len(items), err, duration)

	if err != nil {
		p.logger.Warn().
			Err(err).
			Int("offset", req.Offset).
			Int("limit", req.Limit).
			Bool("retryable", api.Retryable(err)).
			Dur("duration", duration).
			Msg("Page fetch failed")
		return []string{}
	}

	if len(items) > req.Limit {
		p.logger.Warn().
			Int("offset", req.Offset).
			Int("limit", req.Limit).
			Int("items", len(items)).
			Msg("Data source returned more items than requested, truncating")
		items = items[:req.Limit]
	}
	if items == nil {
		items = []string{}
	}

	p.logger.Debug().
		Int("offset", req.Offset).
		Int("items", len(items)).
		Dur("duration", duration).
		Msg("Page fetched")

	return items
}

// Complete settles the request started by Begin: it advances the next
// offset by received, hides the indicator and frees the slot. Callers
// append the received items before calling Complete so no second request
// can observe the old offset. Calling Complete while idle is a no-op.
func (p *Pager) Complete(req models.PageRequest, received int) {
	p.mu.Lock()
	if !p.fetching {
		p.mu.Unlock()
		return
	}
	if received > 0 && req.Offset == p.nextOffset {
		p.nextOffset = req.Next(received).Offset
	}
	next := p.nextOffset
	p.mu.Unlock()

	if received > 0 {
		metrics.ItemsReceived.Add(float64(received))
	}
	metrics.NextOffset.Set(float64(next))

	if p.indicator != nil {
		p.indicator.SetLoading(false)
	}

	p.mu.Lock()
	if p.fetching {
		p.fetching = false
		p.slot.Release(1)
	}
	p.mu.Unlock()
}

// FetchNextPage requests the next page and returns its items. ok is false
// when the call was skipped because another request is in flight. Fetch
// failures yield an empty, non-nil slice. The offset is advanced by the
// number of items returned before the slot is freed.
func (p *Pager) FetchNextPage(ctx context.Context) (items []string, ok bool) {
	req, ok := p.Begin()
	if !ok {
		return nil, false
	}

	received := 0
	defer func() {
		p.Complete(req, received)
	}()

	items = p.Fetch(ctx, req)
	received = len(items)

	return items, true
}
