// Package scrollsync keeps a custom scrollbar thumb in step with a scrolled
// container and asks for more content when the view nears the bottom.
package scrollsync

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/mobil-koeln/scrollfeed/internal/logging"
)

const (
	// DefaultMinThumbHeight is the smallest thumb drawn, in container units
	DefaultMinThumbHeight = 20

	// DefaultThreshold is the distance from the bottom that triggers a prefetch
	DefaultThreshold = 50
)

// Geometry is the scroll state of a container, in consistent units
type Geometry struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// Scrollable returns the largest valid ScrollTop
func (g Geometry) Scrollable() float64 {
	return math.Max(0, g.ScrollHeight-g.ClientHeight)
}

// Thumb is the size and position of the scrollbar thumb within the track.
// The track is as tall as the container's visible area.
type Thumb struct {
	Height float64
	Top    float64
}

// Bottom returns the thumb's lower edge
func (t Thumb) Bottom() float64 {
	return t.Top + t.Height
}

// Compute derives the thumb from g. The thumb is proportional to the visible
// fraction of the content but never shorter than minThumb nor taller than the
// track. When all content fits, the thumb fills the track.
func Compute(g Geometry, minThumb float64) Thumb {
	ch := g.ClientHeight
	if ch <= 0 || isBad(ch) {
		return Thumb{}
	}
	if minThumb < 0 || isBad(minThumb) {
		minThumb = 0
	}

	sh := g.ScrollHeight
	if sh <= ch || isBad(sh) {
		return Thumb{Height: ch}
	}

	height := math.Min(ch, math.Max(minThumb, ch*ch/sh))

	scrollable := sh - ch
	top := g.ScrollTop
	if isBad(top) {
		top = 0
	}
	top = math.Min(math.Max(top, 0), scrollable)

	return Thumb{
		Height: height,
		Top:    top / scrollable * (ch - height),
	}
}

// NearBottom reports whether the visible area ends within threshold of the
// end of the content.
func NearBottom(g Geometry, threshold float64) bool {
	return g.ScrollTop+g.ClientHeight >= g.ScrollHeight-threshold
}

func isBad(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// Container reports the current scroll geometry
type Container interface {
	Metrics() Geometry
}

// ThumbWriter applies a computed thumb to the visual scrollbar
type ThumbWriter interface {
	SetThumb(t Thumb)
}

// Prefetcher is asked for more content near the bottom. It must tolerate
// being called while a fetch is already in flight.
type Prefetcher interface {
	Prefetch()
}

// PrefetchFunc adapts a function to Prefetcher
type PrefetchFunc func()

// Prefetch calls f
func (f PrefetchFunc) Prefetch() { f() }

// Config holds the tunables of a Sync
type Config struct {
	MinThumbHeight float64
	Threshold      float64
}

// DefaultConfig returns the default thumb and prefetch sizes
func DefaultConfig() Config {
	return Config{
		MinThumbHeight: DefaultMinThumbHeight,
		Threshold:      DefaultThreshold,
	}
}

// Sync wires a container to its thumb and to a prefetcher
type Sync struct {
	cfg       Config
	container Container
	thumb     ThumbWriter
	prefetch  Prefetcher
	logger    zerolog.Logger
}

// New creates a Sync. prefetch may be nil when no paging is wanted.
func New(cfg Config, container Container, thumb ThumbWriter, prefetch Prefetcher) *Sync {
	return &Sync{
		cfg:       cfg,
		container: container,
		thumb:     thumb,
		prefetch:  prefetch,
		logger:    logging.NewLogger("scrollsync"),
	}
}

// RecomputeThumb reads the container geometry and applies the derived thumb.
// It is idempotent for unchanged geometry.
func (s *Sync) RecomputeThumb() Thumb {
	g := s.container.Metrics()
	t := Compute(g, s.cfg.MinThumbHeight)

	s.logger.Debug().
		Float64("scroll_top", g.ScrollTop).
		Float64("scroll_height", g.ScrollHeight).
		Float64("client_height", g.ClientHeight).
		Float64("thumb_height", t.Height).
		Float64("thumb_top", t.Top).
		Msg("Thumb recomputed")

	if s.thumb != nil {
		s.thumb.SetThumb(t)
	}
	return t
}

// OnScroll handles a scroll event: it recomputes the thumb and requests
// more content if the view is near the bottom. It reports whether a
// prefetch was requested.
func (s *Sync) OnScroll() bool {
	s.RecomputeThumb()

	if !NearBottom(s.container.Metrics(), s.cfg.Threshold) {
		return false
	}
	if s.prefetch != nil {
		s.prefetch.Prefetch()
	}
	return true
}

// OnResize handles a resize of the container. It never requests content.
func (s *Sync) OnResize() Thumb {
	return s.RecomputeThumb()
}
