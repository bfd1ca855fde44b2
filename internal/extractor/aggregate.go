package extractor

import (
	"sort"
	"strings"

	"category/extractor/internal/domain"
)

// Aggregate keeps the highest-confidence record per case-insensitive name and
// ranks the survivors by confidence, ties in first-encounter order.
func Aggregate(candidates []domain.RawCandidate) []domain.ExtractedProduct {
	index := make(map[string]int, len(candidates))
	products := make([]domain.ExtractedProduct, 0, len(candidates))

	for _, c := range candidates {
		if c.Name == "" {
			continue
		}
		key := strings.ToLower(c.Name)
		record := domain.ExtractedProduct{
			Name:       c.Name,
			Source:     c.Source,
			SourceRef:  c.SourceRef,
			Confidence: c.Confidence,
		}

		i, ok := index[key]
		if !ok {
			index[key] = len(products)
			products = append(products, record)
			continue
		}
		if c.Confidence > products[i].Confidence {
			products[i] = record
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Confidence > products[j].Confidence
	})
	return products
}
