package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mobil-koeln/scrollfeed/internal/models"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "scrollfeed"

	// maxBodyBytes bounds a single page response
	maxBodyBytes = 16 << 20

	// maxErrorBodyBytes bounds the error text kept from a failed response
	maxErrorBodyBytes = 512
)

// Client fetches pages of items from the data source
type Client struct {
	httpClient *http.Client
	baseURL    string
	endpoint   string
	userAgent  string
	logger     zerolog.Logger
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets the scheme and host of the data source
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithEndpoint sets the path of the items endpoint
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new API client
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:   DefaultBaseURL,
		endpoint:  EndpointItems,
		userAgent: defaultUserAgent,
		logger:    log.With().Str("component", "api").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if _, err := url.ParseRequestURI(c.baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}

	return c, nil
}

// BaseURL returns the data source base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchPage fetches the items in req's range.
// The body must be a JSON array of strings; anything else is ErrDecode.
func (c *Client) FetchPage(ctx context.Context, req models.PageRequest) ([]string, error) {
	body, err := c.FetchPageRaw(ctx, req)
	if err != nil {
		return nil, err
	}

	var items []string
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if items == nil {
		// A literal null decodes to a nil slice
		items = []string{}
	}

	return items, nil
}

// FetchPageRaw fetches a page and returns the raw JSON body
func (c *Client) FetchPageRaw(ctx context.Context, req models.PageRequest) (json.RawMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	params := url.Values{}
	params.Set(ParamStart, strconv.Itoa(req.Offset))
	params.Set(ParamEnd, strconv.Itoa(req.End()))

	reqURL := c.baseURL + c.endpoint + "?" + params.Encode()

	return c.doRequest(ctx, reqURL)
}

// doRequest performs an HTTP GET request
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Check for context errors
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		endpoint := extractEndpoint(reqURL)
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if msg := strings.TrimSpace(string(snippet)); msg != "" {
			return nil, NewAPIErrorWithMessage(resp.StatusCode, endpoint, msg)
		}
		return nil, NewAPIError(resp.StatusCode, resp.Status, endpoint)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("url", reqURL).
		Int("status_code", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("Page request complete")

	return body, nil
}

// extractEndpoint extracts the endpoint path from a full URL
func extractEndpoint(fullURL string) string {
	u, err := url.Parse(fullURL)
	if err != nil {
		return fullURL
	}
	return u.Path
}
