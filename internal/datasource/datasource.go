// Package datasource serves an in-memory list of items over the range
// endpoint the pager reads from. It backs the serve command and tests.
package datasource

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mobil-koeln/scrollfeed/internal/api"
	"github.com/mobil-koeln/scrollfeed/internal/logging"
)

// Store is a goroutine-safe list of items
type Store struct {
	mu    sync.RWMutex
	items []string
}

// NewStore creates a store holding items
func NewStore(items []string) *Store {
	return &Store{items: items}
}

// Len returns the number of items
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Append adds items at the end of the list
func (s *Store) Append(items ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
}

// Range returns a copy of the items in [start, end). start below zero is
// treated as zero and end is clamped to the list length; an empty range
// yields an empty, non-nil slice.
func (s *Store) Range(start, end int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if start < 0 {
		start = 0
	}
	if end > len(s.items) {
		end = len(s.items)
	}
	if start >= end {
		return []string{}
	}

	out := make([]string, end-start)
	copy(out, s.items[start:end])
	return out
}

// LoadFile reads one item per line from path, skipping blank lines
func LoadFile(path string) ([]string, error) {
	// #nosec G304 -- path is supplied by the operator
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return ReadItems(f)
}

// ReadItems reads one item per line from r, skipping blank lines
func ReadItems(r io.Reader) ([]string, error) {
	var items []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// RandomIPv4 returns n random public-looking IPv4 addresses. The first octet
// is in 1..223 and never 10, 127 or 169.
func RandomIPv4(n int, r *rand.Rand) []string {
	if n <= 0 {
		return []string{}
	}
	if r == nil {
		r = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	ips := make([]string, 0, n)
	for len(ips) < n {
		first := 1 + r.IntN(223)
		if first == 10 || first == 127 || first == 169 {
			continue
		}
		ips = append(ips, fmt.Sprintf("%d.%d.%d.%d", first, r.IntN(256), r.IntN(256), r.IntN(256)))
	}
	return ips
}

// Stats is reported by the stats endpoint
type Stats struct {
	Requests int64 `json:"requests"`
	Items    int   `json:"items"`
}

// Server exposes a Store over HTTP
type Server struct {
	store  *Store
	logger zerolog.Logger

	mu       sync.Mutex
	requests int64
}

// NewServer creates a server for store
func NewServer(store *Store) *Server {
	return &Server{
		store:  store,
		logger: logging.NewLogger("serve"),
	}
}

// Handler returns the routes of the data source
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(api.EndpointItems, s.handleItems)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// ListenAndServe serves the data source on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().
		Str("addr", addr).
		Int("items", s.store.Len()).
		Msg("Serving data source")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stats returns the request count and list size
func (s *Server) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Requests: s.requests, Items: s.store.Len()}
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	s.mu.Lock()
	s.requests++
	s.mu.Unlock()

	w.Header().Set("Access-Control-Allow-Origin", "*")

	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		s.handleBulkAdd(w, r)
		return
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Unparseable bounds read as zero
	q := r.URL.Query()
	from, err := strconv.Atoi(q.Get(api.ParamStart))
	if err != nil && q.Get(api.ParamStart) != "" {
		s.logger.Warn().Str("start", q.Get(api.ParamStart)).Msg("Unparseable start parameter")
	}
	to, err := strconv.Atoi(q.Get(api.ParamEnd))
	if err != nil && q.Get(api.ParamEnd) != "" {
		s.logger.Warn().Str("end", q.Get(api.ParamEnd)).Msg("Unparseable end parameter")
	}

	items := s.store.Range(from, to)

	out, err := json.Marshal(items)
	if err != nil {
		http.Error(w, "failed to encode items", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(out); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write response")
	}

	s.logger.Debug().
		Int("start", from).
		Int("end", to).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Served items")
}

// maxBulkBytes bounds a bulk add request body
const maxBulkBytes = 1 << 20

// BulkAdd is the body of a bulk add request
type BulkAdd struct {
	Values []string `json:"values"`
}

// BulkAddResult is the response to a bulk add request
type BulkAddResult struct {
	Message string `json:"message"`
	Added   int    `json:"added"`
	Items   int    `json:"items"`
}

// handleBulkAdd appends the posted values to the store. A blank value
// rejects the whole request and nothing is appended.
func (s *Server) handleBulkAdd(w http.ResponseWriter, r *http.Request) {
	var body BulkAdd
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBulkBytes)).Decode(&body); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	values := make([]string, 0, len(body.Values))
	for i, v := range body.Values {
		v = strings.TrimSpace(v)
		if v == "" {
			http.Error(w, fmt.Sprintf("blank value at index %d", i), http.StatusBadRequest)
			return
		}
		values = append(values, v)
	}

	s.store.Append(values...)

	s.logger.Debug().
		Int("added", len(values)).
		Int("items", s.store.Len()).
		Msg("Items added")

	out, err := json.Marshal(BulkAddResult{Message: "items added", Added: len(values), Items: s.store.Len()})
	if err != nil {
		http.Error(w, "failed to encode result", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	out, err := json.Marshal(s.Stats())
	if err != nil {
		http.Error(w, "failed to encode stats", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}
