package extract

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/pfrederiksen/ffvb-results/internal/document"
	"github.com/pfrederiksen/ffvb-results/internal/entity"
	"github.com/pfrederiksen/ffvb-results/internal/logger"
	"github.com/pfrederiksen/ffvb-results/internal/scraper"
)

var (
	// ErrRegionNotFound is returned when the requested region is not a header of the page
	ErrRegionNotFound = errors.New("region not found")
	// ErrStructuralMismatch is returned when a table or cell the layout expects is absent
	ErrStructuralMismatch = errors.New("structural mismatch")
)

// Extractor fetches pages and decodes them into entities. It holds no
// per-page state: every call loads its own document, so calls may run
// concurrently.
type Extractor struct {
	fetcher scraper.Fetcher
	layout  Layout
}

// New creates an Extractor reading pages through fetcher
func New(fetcher scraper.Fetcher, layout Layout) *Extractor {
	return &Extractor{
		fetcher: fetcher,
		layout:  layout,
	}
}

// Layout returns the page layout used by the match and ranking decoders
func (e *Extractor) Layout() Layout {
	return e.layout
}

// load fetches url into a fresh document store. The fetch is the only
// point where ctx is observed.
func (e *Extractor) load(ctx context.Context, url string) (*document.Store, error) {
	page, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", url, err)
	}

	store := document.New()
	if err := store.Load(page); err != nil {
		return nil, fmt.Errorf("loading %s: %w", url, err)
	}
	return store, nil
}

// ListCompetitions returns the known competition levels. No page is fetched.
func (e *Extractor) ListCompetitions() []entity.Competition {
	return entity.Competitions()
}

// ListRegions returns the regions listed on a competition page
func (e *Extractor) ListRegions(ctx context.Context, url string) ([]entity.Region, error) {
	start := time.Now()

	store, err := e.load(ctx, url)
	if err != nil {
		return nil, err
	}

	regions, err := DecodeRegions(store)
	if err != nil {
		return nil, fmt.Errorf("decoding regions of %s: %w", url, err)
	}

	logger.AddCounter("extract.regions", int64(len(regions)))
	logger.RecordTiming("extract.regions", time.Since(start))
	logger.Debug("Decoded regions", logger.Fields{"url": url, "count": len(regions)})

	return regions, nil
}

// ListDepartments returns the departments of region on a competition page
func (e *Extractor) ListDepartments(ctx context.Context, url, region string) ([]entity.Department, error) {
	start := time.Now()

	store, err := e.load(ctx, url)
	if err != nil {
		return nil, err
	}

	departments, err := DecodeDepartments(store, region)
	if err != nil {
		return nil, fmt.Errorf("decoding departments of %s: %w", url, err)
	}

	logger.AddCounter("extract.departments", int64(len(departments)))
	logger.RecordTiming("extract.departments", time.Since(start))
	logger.Debug("Decoded departments", logger.Fields{"url": url, "region": region, "count": len(departments)})

	return departments, nil
}

// ListMatches returns every match of team on a pool's results page
func (e *Extractor) ListMatches(ctx context.Context, url, team string) ([]entity.Match, error) {
	start := time.Now()

	store, err := e.load(ctx, url)
	if err != nil {
		return nil, err
	}

	matches, err := DecodeMatches(store, e.layout, team)
	if err != nil {
		return nil, fmt.Errorf("decoding matches of %s: %w", url, err)
	}

	logger.AddCounter("extract.matches", int64(len(matches)))
	logger.RecordTiming("extract.matches", time.Since(start))
	logger.Debug("Decoded matches", logger.Fields{"url": url, "team": team, "count": len(matches)})

	return matches, nil
}

// Ranking fetches a pool's results page and returns a lazy sequence over its
// ranking table. Decoding errors are yielded as the sequence is consumed.
func (e *Extractor) Ranking(ctx context.Context, url string) (iter.Seq2[entity.Rank, error], error) {
	store, err := e.load(ctx, url)
	if err != nil {
		return nil, err
	}
	return DecodeRanking(store, e.layout), nil
}

// ListRanking collects Ranking into a slice
func (e *Extractor) ListRanking(ctx context.Context, url string) ([]entity.Rank, error) {
	seq, err := e.Ranking(ctx, url)
	if err != nil {
		return nil, err
	}

	ranks := make([]entity.Rank, 0)
	for rank, err := range seq {
		if err != nil {
			return nil, fmt.Errorf("decoding ranking of %s: %w", url, err)
		}
		ranks = append(ranks, rank)
	}

	logger.AddCounter("extract.ranks", int64(len(ranks)))
	return ranks, nil
}
