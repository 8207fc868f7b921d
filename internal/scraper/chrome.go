package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/pfrederiksen/ffvb-results/internal/logger"
)

// ChromeFetcher renders pages in a headless Chrome and returns the
// resulting document. It needs a Chrome or Chromium binary on the host.
type ChromeFetcher struct {
	timeout time.Duration
	opts    []chromedp.ExecAllocatorOption
}

// NewChrome creates a ChromeFetcher. A zero timeout uses Timeout.
func NewChrome(timeout time.Duration, userAgent string) *ChromeFetcher {
	if timeout <= 0 {
		timeout = Timeout
	}
	if userAgent == "" {
		userAgent = UserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.UserAgent(userAgent),
	)

	return &ChromeFetcher{
		timeout: timeout,
		opts:    opts,
	}
}

// Fetch navigates to uri and returns the outer HTML of the rendered page
func (f *ChromeFetcher) Fetch(ctx context.Context, uri string) (string, error) {
	start := time.Now()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, f.timeout)
	defer cancel()

	var page string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(uri),
		chromedp.OuterHTML("html", &page, chromedp.ByQuery),
	)
	if err != nil {
		logger.IncrCounter("fetch.errors")
		return "", fmt.Errorf("%w: rendering page: %w", ErrFetchFailure, err)
	}

	logger.IncrCounter("fetch.pages")
	logger.RecordTiming("fetch.chrome", time.Since(start))

	return page, nil
}
