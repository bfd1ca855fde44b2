package extractor

import (
	"context"
	"time"

	"category/extractor/internal/domain"
	"category/extractor/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// Extractor runs the fallback cascade: structured resolver, keyword search,
// then the optional page scrape, escalating only while results are thin.
type Extractor struct {
	thresholds Thresholds
	resolver   *Resolver
	search     *KeywordSearch
	page       *PageFallback
	tiers      []tier
}

type tier struct {
	name    string
	applies func(req domain.ExtractionRequest) bool
	run     func(ctx context.Context, req domain.ExtractionRequest) []domain.RawCandidate
}

func New(kb KnowledgeBase, pages PageSource, thresholds Thresholds, selectors []string) *Extractor {
	e := &Extractor{
		thresholds: thresholds,
		resolver:   NewResolver(kb, thresholds),
		search:     NewKeywordSearch(kb, thresholds),
		page:       NewPageFallback(pages, selectors),
	}

	always := func(domain.ExtractionRequest) bool { return true }
	e.tiers = []tier{
		{name: "structured", applies: always, run: e.runResolver},
		{name: "keyword_search", applies: always, run: e.runSearch},
		{
			name:    "unstructured_page",
			applies: func(req domain.ExtractionRequest) bool { return req.RetailerURL != "" },
			run:     e.runPage,
		},
	}
	return e
}

// Extract never fails; an unproductive run returns an empty list.
func (e *Extractor) Extract(ctx context.Context, req domain.ExtractionRequest) []domain.ExtractedProduct {
	start := time.Now()
	log.Infof("🔄 Extracting products for %s", req.Path)

	var all []domain.RawCandidate
	for i, t := range e.tiers {
		if i > 0 && len(all) >= e.thresholds.Richness {
			log.Debugf("Have %d candidates, skipping %s and later tiers", len(all), t.name)
			break
		}
		if !t.applies(req) {
			continue
		}

		metrics.TierInvocations.WithLabelValues(t.name).Inc()
		found := t.run(ctx, req)
		metrics.TierCandidates.WithLabelValues(t.name).Add(float64(len(found)))
		log.Infof("Tier %s returned %d candidates", t.name, len(found))

		all = append(all, found...)
	}

	products := Aggregate(all)

	metrics.ExtractionRuns.Inc()
	metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	metrics.ProductsEmitted.Observe(float64(len(products)))
	for _, p := range products {
		metrics.ProductsBySource.WithLabelValues(p.Source.String()).Inc()
	}
	log.Infof("✅ Extracted %d products for %s from %d candidates", len(products), req.Path, len(all))

	return products
}

func (e *Extractor) runResolver(ctx context.Context, req domain.ExtractionRequest) []domain.RawCandidate {
	return e.resolver.Resolve(ctx, req.Path).Candidates
}

func (e *Extractor) runSearch(ctx context.Context, req domain.ExtractionRequest) []domain.RawCandidate {
	return e.search.Search(ctx, req.Path.Terms(), e.thresholds.KeywordMaxResults)
}

func (e *Extractor) runPage(ctx context.Context, req domain.ExtractionRequest) []domain.RawCandidate {
	names := e.page.Names(ctx, req.RetailerURL, nil)
	out := make([]domain.RawCandidate, 0, len(names))
	for _, name := range names {
		out = append(out, domain.RawCandidate{
			Name:       name,
			Source:     domain.SourceUnstructuredPage,
			SourceRef:  req.RetailerURL,
			Confidence: e.thresholds.PageConfidence,
		})
	}
	return out
}
