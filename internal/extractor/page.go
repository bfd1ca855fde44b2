package extractor

import (
	"context"

	"category/extractor/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// DefaultSelectors are tried in order when the caller supplies none.
var DefaultSelectors = []string{
	".product-title",
	".product-name",
	"h2 a",
	".product-card__title",
	".s-title",
}

// PageFallback scrapes name-like text from a single caller-supplied page.
type PageFallback struct {
	pages     PageSource
	selectors []string
}

func NewPageFallback(pages PageSource, selectors []string) *PageFallback {
	if len(selectors) == 0 {
		selectors = DefaultSelectors
	}
	return &PageFallback{pages: pages, selectors: selectors}
}

// Names never fails: fetch or parse problems yield an empty result.
func (f *PageFallback) Names(ctx context.Context, pageURL string, selectors []string) []string {
	if f.pages == nil || pageURL == "" {
		return nil
	}
	if len(selectors) == 0 {
		selectors = f.selectors
	}

	html, err := f.pages.FetchPage(ctx, pageURL)
	if err != nil {
		metrics.LookupFailures.WithLabelValues("page_fetch").Inc()
		log.Warnf("Failed to fetch %s: %v", pageURL, err)
		return nil
	}

	texts, err := f.pages.ExtractTexts(html, selectors)
	if err != nil {
		metrics.LookupFailures.WithLabelValues("page_parse").Inc()
		log.Warnf("Failed to parse %s: %v", pageURL, err)
		return nil
	}

	names := make([]string, 0, len(texts))
	for _, text := range texts {
		if name := Normalize(text); name != "" {
			names = append(names, name)
		}
	}
	return uniquePreserveOrder(names)
}
