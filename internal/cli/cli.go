package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/maplehacks/mlh-scrape/internal/config"
	"github.com/maplehacks/mlh-scrape/internal/engine"
	"github.com/maplehacks/mlh-scrape/internal/event"
	"github.com/maplehacks/mlh-scrape/internal/filter"
	"github.com/maplehacks/mlh-scrape/internal/logger"
	"github.com/maplehacks/mlh-scrape/internal/scraper"
	"github.com/maplehacks/mlh-scrape/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagExisting       string
	flagURL            string
	flagPretty         bool
	flagEngine         string
	flagConfig         string
	flagFormat         string
	flagSort           string
	flagProvince       string
	flagHidePast       bool
	flagSearch         string
	flagDates          string
	flagUpdateExisting bool
	flagVerbose        bool
	flagTimeout        time.Duration
	flagPrintConfig    bool
)

// newEngine builds the fetch engine; tests swap it out
var newEngine = engine.New

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mlh-scrape",
		Short: "List newly-announced Canadian hackathons",
		Long: `A CLI tool that scrapes the MLH season events page, keeps Canadian events,
drops the ones already recorded in an existing output file, and prints the rest
as JSON on stdout.

  mlh-scrape > new.json
  mlh-scrape --existing data/hackathons.json --pretty`,
		Args:          cobra.NoArgs,
		RunE:          runScrape,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Define flags
	cmd.Flags().StringVar(&flagExisting, "existing", config.DefaultExisting, "Existing events JSON file used to skip known events")
	cmd.Flags().StringVar(&flagURL, "url", config.DefaultURL, "Hackathon listing page to scrape")
	cmd.Flags().BoolVar(&flagPretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&flagEngine, "engine", config.EngineBrowser, "Fetch engine: browser (headless Chromium) or http (static HTML)")
	cmd.Flags().StringVar(&flagConfig, "config", "", "Optional YAML config file")
	cmd.Flags().StringVar(&flagFormat, "format", string(FormatJSON), "Output format: json, ics or text")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortNone), "Sort order: none, date, name or province")
	cmd.Flags().StringVar(&flagProvince, "province", "", "Only include these provinces (e.g. ON,QC or 'all')")
	cmd.Flags().BoolVar(&flagHidePast, "hide-past", false, "Hide events that have already started")
	cmd.Flags().StringVar(&flagSearch, "search", "", "Only include events whose name or location contains this text")
	cmd.Flags().StringVar(&flagDates, "dates", "", "Only include events starting in this range (e.g. 'Mar 1-15', 'Jan - Mar')")
	cmd.Flags().BoolVar(&flagUpdateExisting, "update-existing", false, "Append the printed events to the existing file")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and print run metrics")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Overall fetch timeout (default from config, 3m)")
	cmd.Flags().BoolVar(&flagPrintConfig, "print-config", false, "Print the effective configuration as YAML and exit")

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	logger.SetDefault(logger.New(logger.LevelInfo, cmd.ErrOrStderr()))

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Validate already checked the level name
	level, _ := logger.ParseLevel(cfg.LogLevel)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	if flagPrintConfig {
		return cfg.Encode(cmd.OutOrStdout())
	}

	// Validate output options before doing any network work
	format := OutputFormat(strings.ToLower(strings.TrimSpace(flagFormat)))
	if !format.valid() {
		return fmt.Errorf("invalid format: %s (must be 'json', 'ics' or 'text')", flagFormat)
	}
	order, err := ParseSortOrder(flagSort)
	if err != nil {
		return err
	}
	f, err := buildFilter()
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.Existing)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	// An unreadable existing file must not stop the run
	existing, err := store.LoadNames()
	if err != nil {
		logger.Warn("could not read existing events, continuing with an empty set", logger.Fields{
			"path": store.Path(),
		}, err)
		existing = event.NewNameSet()
	}
	logger.Debug("loaded existing events", logger.Fields{
		"path":  store.Path(),
		"count": len(existing),
	})

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	start := time.Now()
	candidates, err := scraper.New(eng, cfg.URL, cfg.ExcludedHosts).FetchEvents(ctx)
	if err != nil {
		return fmt.Errorf("fetching events: %w", err)
	}
	logger.RecordTiming("scrape", time.Since(start))

	diff := event.Diff(existing, candidates, event.DiffOptions{FallbackWebsite: cfg.FallbackWebsite})
	logDiff(diff, len(candidates))

	events := f.Apply(diff.NewEvents)
	if !f.IsEmpty() {
		logger.Debug("applied filters", logger.Fields{
			"filter": f.String(),
			"before": len(diff.NewEvents),
			"after":  len(events),
		})
	}
	sortEvents(events, order)
	logger.SetGauge("events.output", float64(len(events)))

	if err := WriteOutput(cmd.OutOrStdout(), events, format, flagPretty); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	// Output is already printed, so a failed update is reported but does not fail the run
	if flagUpdateExisting {
		added, err := store.Append(events)
		if err != nil {
			logger.Error("failed to update existing events file", logger.Fields{"path": store.Path()}, err)
		} else {
			logger.Info("updated existing events file", logger.Fields{
				"path":  store.Path(),
				"added": added,
			})
		}
	}

	if flagVerbose {
		logger.Info("run metrics", logger.MetricsSnapshot())
	}

	return nil
}

// loadConfig reads the optional config file and applies the flags the user set.
// Flags left at their defaults do not override values from the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("existing") || cfg.Existing == "" {
		cfg.Existing = flagExisting
	}
	if flags.Changed("url") || cfg.URL == "" {
		cfg.URL = flagURL
	}
	if flags.Changed("engine") || cfg.Engine == "" {
		cfg.Engine = flagEngine
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func buildFilter() (*filter.Filter, error) {
	f := filter.NewFilter()

	provinces, err := filter.ParseProvinces(flagProvince)
	if err != nil {
		return nil, fmt.Errorf("invalid --province: %w", err)
	}
	f.Provinces = provinces
	f.HidePast = flagHidePast
	f.Query = flagSearch

	if strings.TrimSpace(flagDates) != "" {
		from, to, err := filter.ParseDateRange(flagDates, time.Now())
		if err != nil {
			return nil, fmt.Errorf("invalid --dates: %w", err)
		}
		f.DateFrom, f.DateTo = from, to
	}

	return f, nil
}

func logDiff(diff *event.DiffResult, candidates int) {
	fields := logger.Fields{
		"candidates": candidates,
		"new":        len(diff.NewEvents),
	}
	for reason, n := range diff.Skipped {
		fields["skipped_"+string(reason)] = n
		logger.AddCounter("skipped."+string(reason), int64(n))
	}

	byProvince := make(map[string]int, len(diff.Provinces))
	for code, events := range diff.Provinces {
		if code == "" {
			code = "unknown"
		}
		byProvince[code] = len(events)
	}
	fields["by_province"] = byProvince

	logger.Info("computed new events", fields)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
