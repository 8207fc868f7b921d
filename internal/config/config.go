// Package config reads ffvb-results settings from the environment.
//
// An optional .env file is loaded first; variables already set in the
// environment win over the file. Command-line flags override the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pfrederiksen/ffvb-results/internal/extract"
	"github.com/pfrederiksen/ffvb-results/internal/logger"
	"github.com/pfrederiksen/ffvb-results/internal/scraper"
)

// Fetcher names accepted by FFVB_FETCHER and --fetcher
const (
	FetcherHTTP   = "http"
	FetcherChrome = "chrome"
)

const (
	DefaultPort        = 8080
	DefaultAllowOrigin = "http://localhost:5173"
)

// Config holds every setting of the CLI and the HTTP API
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	Fetcher      string
	MatchTable   int
	RankingTable int
	LogLevel     logger.Level
	Port         int
	AllowOrigin  string
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Timeout:      scraper.Timeout,
		UserAgent:    scraper.UserAgent,
		Fetcher:      FetcherHTTP,
		MatchTable:   extract.DefaultMatchTable,
		RankingTable: extract.DefaultRankingTable,
		LogLevel:     logger.LevelInfo,
		Port:         DefaultPort,
		AllowOrigin:  DefaultAllowOrigin,
	}
}

// Load reads the given env files (".env" when none is given), ignoring
// missing ones, then builds a Config from the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, starting from Default. Every
// malformed variable is reported.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	getInt := func(key string, dst *int) {
		v, ok := get(key)
		if !ok {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}

	if v, ok := get("FFVB_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("FFVB_TIMEOUT: %w", err))
		} else {
			cfg.Timeout = d
		}
	}
	if v, ok := get("FFVB_USER_AGENT"); ok {
		cfg.UserAgent = v
	}
	if v, ok := get("FFVB_FETCHER"); ok {
		cfg.Fetcher = strings.ToLower(v)
	}
	getInt("FFVB_MATCH_TABLE", &cfg.MatchTable)
	getInt("FFVB_RANKING_TABLE", &cfg.RankingTable)
	if v, ok := get("LOG_LEVEL"); ok {
		level, err := logger.ParseLevel(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		} else {
			cfg.LogLevel = level
		}
	}
	getInt("PORT", &cfg.Port)
	if v, ok := get("FFVB_ALLOW_ORIGIN"); ok {
		cfg.AllowOrigin = v
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that parsed but cannot be used
func (c Config) Validate() error {
	var errs []error

	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.Fetcher != FetcherHTTP && c.Fetcher != FetcherChrome {
		errs = append(errs, fmt.Errorf("unknown fetcher %q (want %s or %s)", c.Fetcher, FetcherHTTP, FetcherChrome))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if err := c.Layout().Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Layout returns the default page layout with the configured table positions
func (c Config) Layout() extract.Layout {
	layout := extract.DefaultLayout()
	layout.MatchTable = c.MatchTable
	layout.RankingTable = c.RankingTable
	return layout
}

// NewFetcher returns the page fetcher selected by c.Fetcher
func (c Config) NewFetcher() scraper.Fetcher {
	if c.Fetcher == FetcherChrome {
		return scraper.NewChrome(c.Timeout, c.UserAgent)
	}
	return scraper.New(scraper.WithTimeout(c.Timeout), scraper.WithUserAgent(c.UserAgent))
}
