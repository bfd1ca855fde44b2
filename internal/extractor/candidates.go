package extractor

import (
	"strings"

	"category/extractor/internal/domain"
)

const (
	categoryPrefix = "Category:"
	listPrefix     = "List of "
)

// GenerateCandidates builds the ordered knowledge-base titles to try for a path,
// most specific first.
func GenerateCandidates(path domain.CategoryPath) []domain.CandidateIdentifier {
	var candidates []domain.CandidateIdentifier

	category := func(name string) {
		candidates = append(candidates, domain.CandidateIdentifier{
			Title: categoryPrefix + name,
			Kind:  domain.CandidateCategory,
		})
	}
	list := func(name string) {
		candidates = append(candidates, domain.CandidateIdentifier{
			Title: listPrefix + name,
			Kind:  domain.CandidateListPage,
		})
	}

	category(strings.Join(path.Terms(), "/"))
	if path.SubSub != "" {
		category(path.SubSub)
	}
	if path.Sub != "" {
		category(path.Sub)
	}
	if path.SubSub != "" {
		category(path.SubSub + "s")
		list(path.SubSub)
	}
	if path.Sub != "" {
		list(path.Sub)
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, c := range candidates {
		if _, ok := seen[c.Title]; ok {
			continue
		}
		seen[c.Title] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}
