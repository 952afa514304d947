package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObservePage(t *testing.T) {
	okBefore := promtest.ToFloat64(PageRequests.WithLabelValues(ResultOK))
	emptyBefore := promtest.ToFloat64(PageRequests.WithLabelValues(ResultEmpty))
	errBefore := promtest.ToFloat64(PageRequests.WithLabelValues(ResultError))

	ObservePage(50, nil, 10*time.Millisecond)
	ObservePage(0, nil, 10*time.Millisecond)
	ObservePage(0, errors.New("boom"), 10*time.Millisecond)
	// A failure is counted as an error even if items were somehow reported
	ObservePage(3, errors.New("boom"), 10*time.Millisecond)

	if got := promtest.ToFloat64(PageRequests.WithLabelValues(ResultOK)) - okBefore; got != 1 {
		t.Errorf("ok requests delta = %v, want 1", got)
	}
	if got := promtest.ToFloat64(PageRequests.WithLabelValues(ResultEmpty)) - emptyBefore; got != 1 {
		t.Errorf("empty requests delta = %v, want 1", got)
	}
	if got := promtest.ToFloat64(PageRequests.WithLabelValues(ResultError)) - errBefore; got != 2 {
		t.Errorf("error requests delta = %v, want 2", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	PageSkipped.Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics") //nolint:gosec // URL is from httptest.Server (localhost)
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read error = %v", err)
	}

	for _, name := range []string{
		"scrollfeed_page_skipped_total",
		"scrollfeed_page_request_duration_seconds",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected %s in /metrics output", name)
		}
	}
}
