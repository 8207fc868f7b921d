package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/pfrederiksen/ffvb-results/internal/calendar"
	"github.com/pfrederiksen/ffvb-results/internal/config"
	"github.com/pfrederiksen/ffvb-results/internal/entity"
	"github.com/pfrederiksen/ffvb-results/internal/extract"
	"github.com/pfrederiksen/ffvb-results/internal/logger"
	"github.com/pfrederiksen/ffvb-results/internal/scraper"
	"github.com/pfrederiksen/ffvb-results/internal/storage"
	"github.com/pfrederiksen/ffvb-results/internal/web"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	// ExitChanges is returned by watch when fixtures changed since the last run
	ExitChanges = 2
)

// errChangesFound makes Execute exit with ExitChanges without printing an error
var errChangesFound = errors.New("changes found")

// app carries the settings shared by every command
type app struct {
	newFetcher func(config.Config) scraper.Fetcher
	clock      clock.Clock
	cfg        config.Config
	format     OutputFormat

	flagFormat  string
	flagVerbose bool
	flagTimeout time.Duration
	flagFetcher string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(config.Config.NewFetcher, clock.New())
}

func newRootCmd(newFetcher func(config.Config) scraper.Fetcher, c clock.Clock) *cobra.Command {
	a := &app{newFetcher: newFetcher, clock: c}

	cmd := &cobra.Command{
		Use:   "ffvb-results",
		Short: "Browse FFVB volleyball competitions, fixtures and rankings",
		Long: `A CLI tool to read the French Volleyball Federation's results pages.
Walk competitions, regions and departments down to a pool, then list a
team's matches or the pool's ranking.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.flagFormat, "format", "text", "Output format: text, json or ics")
	cmd.PersistentFlags().BoolVar(&a.flagVerbose, "verbose", false, "Enable verbose logging")
	cmd.PersistentFlags().DurationVar(&a.flagTimeout, "timeout", scraper.Timeout, "Page fetch timeout")
	cmd.PersistentFlags().StringVar(&a.flagFetcher, "fetcher", config.FetcherHTTP, "Page fetcher: http or chrome")

	cmd.AddCommand(
		a.competitionsCmd(),
		a.regionsCmd(),
		a.departmentsCmd(),
		a.matchesCmd(),
		a.rankingCmd(),
		a.watchCmd(),
		a.serveCmd(),
	)

	return cmd
}

// setup loads the configuration, applies flag overrides and installs the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("timeout") {
		cfg.Timeout = a.flagTimeout
	}
	if flags.Changed("fetcher") {
		cfg.Fetcher = strings.ToLower(a.flagFetcher)
	}
	if a.flagVerbose {
		cfg.LogLevel = logger.LevelDebug
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	format, err := ParseFormat(a.flagFormat)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.format = format
	logger.SetDefault(logger.New(cfg.LogLevel, cmd.ErrOrStderr()))

	logger.Debug("Configuration loaded", logger.Fields{
		"fetcher":       cfg.Fetcher,
		"timeout":       cfg.Timeout.String(),
		"match_table":   cfg.MatchTable,
		"ranking_table": cfg.RankingTable,
	})
	return nil
}

func (a *app) extractor() *extract.Extractor {
	return extract.New(a.newFetcher(a.cfg), a.cfg.Layout())
}

// requireFormat rejects output formats a command cannot produce
func (a *app) requireFormat(allowed ...OutputFormat) error {
	for _, f := range allowed {
		if a.format == f {
			return nil
		}
	}
	return fmt.Errorf("format %s is not supported by this command", a.format)
}

func (a *app) competitionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "competitions",
		Short: "List the competition levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireFormat(FormatText, FormatJSON); err != nil {
				return err
			}
			competitions := a.extractor().ListCompetitions()
			return writeLinks(cmd.OutOrStdout(), a.format, "competitions", competitions, toLinks(competitions))
		},
	}
}

func (a *app) regionsCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the regions of a competition page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireFormat(FormatText, FormatJSON); err != nil {
				return err
			}
			regions, err := a.extractor().ListRegions(cmd.Context(), url)
			if err != nil {
				return fmt.Errorf("listing regions: %w", err)
			}
			return writeLinks(cmd.OutOrStdout(), a.format, "regions", regions, toLinks(regions))
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Competition page URL (required)")
	cmd.MarkFlagRequired("url")
	return cmd
}

func (a *app) departmentsCmd() *cobra.Command {
	var url, region string
	cmd := &cobra.Command{
		Use:   "departments",
		Short: "List the departments of a region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireFormat(FormatText, FormatJSON); err != nil {
				return err
			}
			departments, err := a.extractor().ListDepartments(cmd.Context(), url, region)
			if err != nil {
				return fmt.Errorf("listing departments: %w", err)
			}
			return writeLinks(cmd.OutOrStdout(), a.format, "departments", departments, toLinks(departments))
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Competition page URL (required)")
	cmd.Flags().StringVar(&region, "region", "", "Region name, exactly as listed (required)")
	cmd.MarkFlagRequired("url")
	cmd.MarkFlagRequired("region")
	return cmd
}

func (a *app) matchesCmd() *cobra.Command {
	var url, team, sortBy string
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "List a team's matches in a pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order := SortOrder(strings.ToLower(sortBy))
			if order != "" && order != SortByDate && order != SortByTeam {
				return fmt.Errorf("invalid sort order: %s (must be 'date' or 'team')", sortBy)
			}

			matches, err := a.extractor().ListMatches(cmd.Context(), url, team)
			if err != nil {
				return fmt.Errorf("listing matches: %w", err)
			}
			sortMatches(matches, order, team)

			if a.format == FormatICS {
				_, err := fmt.Fprint(cmd.OutOrStdout(), calendar.New(a.clock).Generate(team, matches))
				return err
			}
			return writeMatches(cmd.OutOrStdout(), a.format, matches, a.flagVerbose)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Pool results page URL (required)")
	cmd.Flags().StringVar(&team, "team", "", "Team name, exactly as listed (required)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort order: date or team (default: page order)")
	cmd.MarkFlagRequired("url")
	cmd.MarkFlagRequired("team")
	return cmd
}

func (a *app) rankingCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Show a pool's ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireFormat(FormatText, FormatJSON); err != nil {
				return err
			}
			ranks, err := a.extractor().ListRanking(cmd.Context(), url)
			if err != nil {
				return fmt.Errorf("reading ranking: %w", err)
			}
			return writeRanking(cmd.OutOrStdout(), a.format, ranks)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Pool results page URL (required)")
	cmd.MarkFlagRequired("url")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var url, team, dataDir string
	var refresh bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Report a team's new results and rescheduled matches since the last run",
		Long: `Compare a team's fixtures with the snapshot saved by the previous run,
report what changed, then save the current fixtures. Exits with status 2 when
something changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireFormat(FormatText, FormatJSON); err != nil {
				return err
			}

			store, err := storage.New(dataDir, a.clock)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}

			matches, err := a.extractor().ListMatches(cmd.Context(), url, team)
			if err != nil {
				return fmt.Errorf("listing matches: %w", err)
			}

			var previous *entity.Snapshot
			if !refresh {
				previous, err = store.LoadSnapshot(url, team)
				if err != nil {
					return fmt.Errorf("loading snapshot: %w", err)
				}
			}

			if err := store.SaveSnapshot(url, team, matches); err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}
			logger.Debug("Saved snapshot", logger.Fields{"path": store.SnapshotPath(url, team), "matches": len(matches)})

			// In refresh mode, don't report changes
			if refresh {
				if a.format == FormatText {
					fmt.Fprintln(cmd.OutOrStdout(), "Snapshot refreshed successfully.")
				}
				return nil
			}

			result := &WatchResult{
				CheckedAt: a.clock.Now().UTC(),
				URL:       url,
				Team:      team,
				FirstRun:  previous == nil,
				Changes:   entity.Diff(previous, matches),
			}
			result.ChangeCount = len(result.Changes)
			logger.SetGauge("watch.changes", float64(result.ChangeCount))

			if err := writeWatch(cmd.OutOrStdout(), a.format, result); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if result.ChangeCount > 0 {
				return errChangesFound
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Pool results page URL (required)")
	cmd.Flags().StringVar(&team, "team", "", "Team name, exactly as listed (required)")
	cmd.Flags().StringVar(&dataDir, "data-dir", storage.DefaultDataDir, "Data directory for snapshots")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh snapshot without reporting changes")
	cmd.MarkFlagRequired("url")
	cmd.MarkFlagRequired("team")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extractor over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}

			server, err := web.NewServer(web.Options{
				Port:           a.cfg.Port,
				AllowOrigin:    a.cfg.AllowOrigin,
				RequestTimeout: a.cfg.Timeout + 5*time.Second,
			}, a.extractor(), calendar.New(a.clock))
			if err != nil {
				return fmt.Errorf("creating web server: %w", err)
			}
			return server.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&port, "port", config.DefaultPort, "Listen port (overrides PORT)")
	return cmd
}

// Execute runs the CLI. SIGINT and SIGTERM cancel in-flight fetches and
// stop the server.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case errors.Is(err, errChangesFound):
		os.Exit(ExitChanges)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
