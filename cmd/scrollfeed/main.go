package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mobil-koeln/scrollfeed/internal/api"
	"github.com/mobil-koeln/scrollfeed/internal/config"
	"github.com/mobil-koeln/scrollfeed/internal/datasource"
	"github.com/mobil-koeln/scrollfeed/internal/logging"
	"github.com/mobil-koeln/scrollfeed/internal/metrics"
	"github.com/mobil-koeln/scrollfeed/internal/models"
	"github.com/mobil-koeln/scrollfeed/internal/output"
	"github.com/mobil-koeln/scrollfeed/internal/pager"
	"github.com/mobil-koeln/scrollfeed/internal/tui"
)

var version = "0.1.0"

// Settings after merging the config file and flags
var cfg config.Config

// logFile is closed on exit when logging goes to a file
var logFile io.Closer

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		_ = logFile.Close()
	}
	if err != nil {
		output.RenderError(os.Stderr, err, output.NewColors(getColorMode()))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scrollfeed",
	Short: "Scroll through a paged list of items served over HTTP",
	Long: `scrollfeed renders a remote list incrementally: it fetches one page of
items at a time from a range endpoint and asks for the next page when you
scroll near the bottom.

The data source answers GET <base-url><endpoint>?start=<offset>&end=<offset+limit>
with a JSON array of strings.

Quick Start:
  1. Start a local data source:   scrollfeed serve --items 5000
  2. Browse it:                    scrollfeed (or scrollfeed tui)
  3. Print one page:               scrollfeed fetch --offset 100 --limit 20
  4. Print every page:             scrollfeed stream

Settings are read from $XDG_CONFIG_HOME/scrollfeed/config.yaml when present;
flags override the file.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is provided, launch TUI
		if len(args) == 0 {
			return runTUI(cmd, args)
		}
		return cmd.Help()
	},
}

// Global flags
var (
	flagConfig      string
	flagBaseURL     string
	flagEndpoint    string
	flagPageSize    int
	flagThreshold   int
	flagTimeout     time.Duration
	flagColor       string
	flagLogFile     string
	flagLogLevel    string
	flagMetricsAddr string
)

// Fetch/stream flags
var (
	flagOffset   int
	flagLimit    int
	flagJSON     bool
	flagRawJSON  bool
	flagMaxPages int
	flagDelay    time.Duration
)

// Serve flags
var (
	flagAddr  string
	flagFile  string
	flagItems int
)

func init() {
	// Add subcommands
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(serveCmd)

	defaults := config.Default()

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/scrollfeed/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", defaults.BaseURL, "Data source base URL")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", defaults.Endpoint, "Path of the range endpoint")
	rootCmd.PersistentFlags().IntVar(&flagPageSize, "page-size", defaults.PageSize, "Items requested per page")
	rootCmd.PersistentFlags().IntVar(&flagThreshold, "threshold", defaults.ScrollThreshold, "Rows from the bottom that trigger the next page")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", defaults.Timeout, "Timeout for a single page request")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "Color output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the TUI defaults to the state directory)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	// Fetch-specific flags
	fetchCmd.Flags().IntVar(&flagOffset, "offset", 0, "Index of the first item")
	fetchCmd.Flags().IntVar(&flagLimit, "limit", 0, "Number of items (default: page size)")
	fetchCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	fetchCmd.Flags().BoolVar(&flagRawJSON, "raw-json", false, "Output the raw response body")

	// Stream-specific flags
	streamCmd.Flags().IntVar(&flagOffset, "offset", 0, "Index to start at")
	streamCmd.Flags().IntVar(&flagMaxPages, "max-pages", 0, "Stop after this many pages (0 = until an empty page)")
	streamCmd.Flags().DurationVar(&flagDelay, "delay", 0, "Pause between pages")
	streamCmd.Flags().BoolVar(&flagJSON, "json", false, "Output each page as JSON")

	// Serve-specific flags
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&flagFile, "file", "", "Serve items from this file, one per line")
	serveCmd.Flags().IntVar(&flagItems, "items", 10000, "Number of random IPv4 addresses to serve when no file is given")
}

// preRun loads the config, applies explicit flags and sets up logging
func preRun(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = applyFlags(cmd, loaded)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The TUI owns the terminal, so it logs to a file
	interactive := !cmd.HasParent() || cmd.Name() == "tui"
	closer, err := setupLogging(interactive)
	if err != nil {
		return err
	}
	logFile = closer

	log.Debug().
		Str("config", path).
		Str("base_url", cfg.BaseURL).
		Int("page_size", cfg.PageSize).
		Msg("Configuration loaded")

	return nil
}

// applyFlags overrides file settings with flags set on the command line
func applyFlags(cmd *cobra.Command, c config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		c.BaseURL = flagBaseURL
	}
	if flags.Changed("endpoint") {
		c.Endpoint = flagEndpoint
	}
	if flags.Changed("page-size") {
		c.PageSize = flagPageSize
	}
	if flags.Changed("threshold") {
		c.ScrollThreshold = flagThreshold
	}
	if flags.Changed("timeout") {
		c.Timeout = flagTimeout
	}
	if flags.Changed("log-file") {
		c.LogFile = flagLogFile
	}
	if flags.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if flags.Changed("metrics-addr") {
		c.MetricsAddr = flagMetricsAddr
	}
	return c
}

// setupLogging configures the global logger. Logs go to the configured
// file, to the default state file for interactive runs, or to stderr.
func setupLogging(interactive bool) (io.Closer, error) {
	lc := logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: true,
		Output: os.Stderr,
	}

	path := cfg.LogFile
	if path == "" && interactive {
		path = logging.DefaultLogFile()
	}
	if path == "" {
		logging.Setup(lc)
		return nil, nil
	}

	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	lc.Output = f
	lc.Pretty = false
	logging.Setup(lc)
	return f, nil
}

// createClient creates an API client from the merged settings
func createClient() (*api.Client, error) {
	opts := cfg.ClientOptions()
	opts = append(opts, api.WithUserAgent("scrollfeed/"+version))
	return api.NewClient(opts...)
}

// getColorMode returns the color mode based on flag
func getColorMode() output.ColorMode {
	return output.ParseColorMode(flagColor)
}

// serveMetrics starts the metrics listener when configured. The returned
// function stops it.
func serveMetrics() func() {
	if cfg.MetricsAddr == "" {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
			log.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("Metrics listener failed")
		}
	}()
	return cancel
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive list",
	Long: `Launch a full-screen list that loads the first page on start and the
next page whenever you scroll near the bottom. A scrollbar on the right
tracks your position in what has been loaded so far.

Keyboard:
  j/k or arrows   Scroll one row
  pgup/pgdown     Scroll one screen
  g/G, home/end   Jump to top/bottom
  r               Load the next page now
  q, Ctrl+C       Quit

The mouse wheel scrolls as well. Logs are written to
$XDG_STATE_HOME/scrollfeed/scrollfeed.log unless --log-file is given.`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	client, err := createClient()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	stop := serveMetrics()
	defer stop()

	log.Info().Str("base_url", client.BaseURL()).Msg("Starting TUI")

	model := tui.New(client, tui.Config{
		PageSize:        cfg.PageSize,
		ScrollThreshold: cfg.ScrollThreshold,
		MinThumb:        cfg.MinThumb,
		Timeout:         cfg.Timeout,
		Source:          client.BaseURL() + cfg.Endpoint,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print one page of items",
	Long: `Fetch a single range of items and print it with absolute indices.

Unlike the interactive list, errors are reported and exit non-zero.

Examples:
  scrollfeed fetch                          # First page
  scrollfeed fetch --offset 500 --limit 10  # Items 500-509
  scrollfeed fetch --json                   # JSON array for scripting`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	client, err := createClient()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	limit := flagLimit
	if limit <= 0 {
		limit = cfg.PageSize
	}
	req := models.NewPageRequest(flagOffset, limit)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if flagRawJSON {
		body, err := client.FetchPageRaw(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", req, err)
		}
		_, _ = fmt.Fprintln(os.Stdout, string(body))
		return nil
	}

	items, err := client.FetchPage(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", req, err)
	}
	page := models.Page{Request: req, Items: items}

	if flagJSON {
		return output.RenderJSON(os.Stdout, page)
	}

	output.RenderItems(os.Stdout, page, output.ListOptions{
		Colors:    output.NewColors(getColorMode()),
		ShowRange: true,
	})
	return nil
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Print pages one after another until the data runs out",
	Long: `Drive the pager without a screen: request the next page as soon as the
previous one is printed, and stop at the first empty page or on Ctrl+C.

Fetch failures are logged and count as an empty page.

Examples:
  scrollfeed stream                       # Everything
  scrollfeed stream --max-pages 3         # First three pages
  scrollfeed stream --offset 1000 --json  # JSON arrays from item 1000 on`,
	Args: cobra.NoArgs,
	RunE: runStream,
}

func runStream(cmd *cobra.Command, args []string) error {
	client, err := createClient()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	stop := serveMetrics()
	defer stop()

	ctx, cancel := output.SignalContext(context.Background())
	defer cancel()

	p := pager.New(client, cfg.PageSize,
		pager.WithStartOffset(flagOffset),
		pager.WithLogger(logging.NewLogger("pager")),
	)
	colors := output.NewColors(getColorMode())

	for pages := 0; flagMaxPages <= 0 || pages < flagMaxPages; pages++ {
		start := p.NextOffset()

		reqCtx, cancelReq := context.WithTimeout(ctx, cfg.Timeout)
		items, _ := p.FetchNextPage(reqCtx)
		cancelReq()

		if ctx.Err() != nil {
			return nil
		}
		if len(items) == 0 {
			_, _ = fmt.Fprintln(os.Stderr, colors.Muted("No items at %d, stopping.", start))
			return nil
		}

		page := models.Page{Request: models.NewPageRequest(start, p.PageSize()), Items: items}
		if flagJSON {
			if err := output.RenderJSON(os.Stdout, page); err != nil {
				return err
			}
		} else {
			output.RenderItems(os.Stdout, page, output.ListOptions{Colors: colors})
		}

		if flagDelay > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(flagDelay):
			}
		}
	}

	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local data source",
	Long: `Serve a list of items over the range endpoint the other commands read.

Items come from --file (one per line) or are generated as random public
IPv4 addresses. Ranges past the end return an empty array.

Routes:
  GET /cache/ips?start=&end=   Items in [start, end)
  POST /cache/ips              Append {"values": [...]} to the list
  GET /health                  Liveness check
  GET /stats                   Request count and list size

Examples:
  scrollfeed serve                        # 10000 random addresses on :8080
  scrollfeed serve --items 120 --addr :9000
  scrollfeed serve --file ips.txt`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	var items []string
	if flagFile != "" {
		loaded, err := datasource.LoadFile(flagFile)
		if err != nil {
			return fmt.Errorf("failed to load items: %w", err)
		}
		items = loaded
	} else {
		items = datasource.RandomIPv4(flagItems, nil)
	}

	stop := serveMetrics()
	defer stop()

	ctx, cancel := output.SignalContext(context.Background())
	defer cancel()

	srv := datasource.NewServer(datasource.NewStore(items))
	return srv.ListenAndServe(ctx, flagAddr)
}
