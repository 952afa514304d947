// Package metrics defines the Prometheus metrics recorded by the pager and
// exposes them over HTTP.
//
// Metrics:
//   - scrollfeed_page_requests_total{result} (Counter): settled page requests by result (ok, empty, error)
//   - scrollfeed_page_skipped_total (Counter): fetches skipped because a request was in flight
//   - scrollfeed_items_received_total (Counter): items appended to the rendered list
//   - scrollfeed_page_request_duration_seconds (Histogram): page request duration
//   - scrollfeed_next_offset (Gauge): next index the pager will request
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Result labels for PageRequests
const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
	ResultError = "error"
)

var (
	// PageRequests tracks settled page requests by result
	PageRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrollfeed_page_requests_total",
			Help: "Total number of settled page requests",
		},
		[]string{"result"},
	)

	// PageSkipped tracks fetches ignored because another was in flight
	PageSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scrollfeed_page_skipped_total",
			Help: "Total number of page fetches skipped while a request was in flight",
		},
	)

	// ItemsReceived tracks items appended to the rendered list
	ItemsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scrollfeed_items_received_total",
			Help: "Total number of items received from the data source",
		},
	)

	// PageDuration tracks page request duration
	PageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scrollfeed_page_request_duration_seconds",
			Help:    "Duration of page requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// NextOffset reports the next index the pager will request
	NextOffset = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scrollfeed_next_offset",
			Help: "Next item index the pager will request",
		},
	)
)

// ObservePage records a settled page request
func ObservePage(items int, err error, duration time.Duration) {
	PageDuration.Observe(duration.Seconds())
	switch {
	case err != nil:
		PageRequests.WithLabelValues(ResultError).Inc()
	case items == 0:
		PageRequests.WithLabelValues(ResultEmpty).Inc()
	default:
		PageRequests.WithLabelValues(ResultOK).Inc()
	}
}

// Handler returns the HTTP handler serving the default gatherer
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Serve exposes /metrics on addr until ctx is cancelled
func Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("Serving metrics")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
