package extractor

import (
	"context"

	"category/extractor/internal/domain"
	"category/extractor/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// Resolution is what the structured-source resolver found.
type Resolution struct {
	Candidates []domain.RawCandidate
	Confidence float64
}

// Resolver tries category and list-page candidates in order and stops at the
// first productive one.
type Resolver struct {
	kb         KnowledgeBase
	walker     *TreeWalker
	thresholds Thresholds
}

func NewResolver(kb KnowledgeBase, thresholds Thresholds) *Resolver {
	return &Resolver{
		kb:         kb,
		walker:     NewTreeWalker(kb),
		thresholds: thresholds,
	}
}

func (r *Resolver) Resolve(ctx context.Context, path domain.CategoryPath) Resolution {
	for _, candidate := range GenerateCandidates(path) {
		if ctx.Err() != nil {
			break
		}

		var found []domain.RawCandidate
		switch candidate.Kind {
		case domain.CandidateCategory:
			found = r.fromCategory(ctx, candidate)
		case domain.CandidateListPage:
			found = r.fromListPage(ctx, candidate)
		}

		if len(found) > 0 {
			log.Infof("✅ %s produced %d candidates", candidate.Title, len(found))
			return Resolution{Candidates: found, Confidence: found[0].Confidence}
		}
		log.Debugf("Candidate %s produced nothing", candidate.Title)
	}

	return Resolution{Confidence: 0.0}
}

func (r *Resolver) fromCategory(ctx context.Context, candidate domain.CandidateIdentifier) []domain.RawCandidate {
	exists, err := r.kb.PageExists(ctx, candidate.Title)
	if err != nil {
		metrics.LookupFailures.WithLabelValues("page_exists").Inc()
		log.Debugf("Lookup of %s failed: %v", candidate.Title, err)
		return nil
	}
	if !exists {
		return nil
	}

	names := r.walker.Walk(ctx, candidate.Title, r.thresholds.MaxDepth)
	return tag(names, domain.SourceStructuredCategory, candidate.Title, r.thresholds.CategoryConfidence)
}

func (r *Resolver) fromListPage(ctx context.Context, candidate domain.CandidateIdentifier) []domain.RawCandidate {
	titles, err := r.kb.Search(ctx, candidate.Title, r.thresholds.ListSearchResults)
	if err != nil {
		metrics.LookupFailures.WithLabelValues("search").Inc()
		log.Debugf("Search for %q failed: %v", candidate.Title, err)
		return nil
	}

	for _, title := range titles {
		exists, err := r.kb.PageExists(ctx, title)
		if err != nil {
			metrics.LookupFailures.WithLabelValues("page_exists").Inc()
			log.Debugf("Lookup of %s failed: %v", title, err)
			continue
		}
		if !exists {
			continue
		}

		links, err := r.kb.Links(ctx, title)
		if err != nil {
			metrics.LookupFailures.WithLabelValues("links").Inc()
			log.Debugf("Failed to list links of %s: %v", title, err)
			continue
		}
		if len(links) >= r.thresholds.ListMinLinks {
			return tag(links, domain.SourceStructuredList, title, r.thresholds.ListConfidence)
		}
	}
	return nil
}

func tag(names []string, source domain.SourceKind, ref string, confidence float64) []domain.RawCandidate {
	out := make([]domain.RawCandidate, 0, len(names))
	for _, name := range names {
		out = append(out, domain.RawCandidate{
			Name:       Normalize(name),
			Source:     source,
			SourceRef:  ref,
			Confidence: confidence,
		})
	}
	return out
}
