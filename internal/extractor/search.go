package extractor

import (
	"context"
	"strings"

	"category/extractor/internal/domain"
	"category/extractor/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// KeywordSearch runs a free-text query against the knowledge base and
// harvests the hits and their outbound links.
type KeywordSearch struct {
	kb         KnowledgeBase
	thresholds Thresholds
}

func NewKeywordSearch(kb KnowledgeBase, thresholds Thresholds) *KeywordSearch {
	return &KeywordSearch{kb: kb, thresholds: thresholds}
}

func (s *KeywordSearch) Search(ctx context.Context, terms []string, maxResults int) []domain.RawCandidate {
	query := strings.Join(terms, " ")

	titles, err := s.kb.Search(ctx, query, maxResults)
	if err != nil {
		metrics.LookupFailures.WithLabelValues("search").Inc()
		log.Debugf("Keyword search for %q failed: %v", query, err)
		return nil
	}

	var out []domain.RawCandidate
	for _, title := range titles {
		if ctx.Err() != nil {
			break
		}

		exists, err := s.kb.PageExists(ctx, title)
		if err != nil {
			metrics.LookupFailures.WithLabelValues("page_exists").Inc()
			log.Debugf("Lookup of %s failed: %v", title, err)
			continue
		}
		if !exists {
			continue
		}

		out = append(out, domain.RawCandidate{
			Name:       Normalize(title),
			Source:     domain.SourceKeywordSearch,
			SourceRef:  query,
			Confidence: s.thresholds.KeywordConfidence,
		})

		links, err := s.kb.Links(ctx, title)
		if err != nil {
			metrics.LookupFailures.WithLabelValues("links").Inc()
			log.Debugf("Failed to list links of %s: %v", title, err)
			continue
		}
		if limit := max(0, s.thresholds.KeywordMaxLinks); len(links) > limit {
			links = links[:limit]
		}
		out = append(out, tag(links, domain.SourceKeywordSearchLink, title, s.thresholds.KeywordConfidence)...)
	}
	return out
}
