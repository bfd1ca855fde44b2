package extractor

// Thresholds holds the heuristic constants of the cascade.
type Thresholds struct {
	Richness           int     // Below this many candidates the next tier runs
	CategoryConfidence float64
	ListConfidence     float64
	KeywordConfidence  float64
	PageConfidence     float64
	MaxDepth           int // Subcategory hops walked below a category
	ListSearchResults  int // Search hits examined per "List of" candidate
	ListMinLinks       int // Links a list page needs to count as productive
	KeywordMaxResults  int
	KeywordMaxLinks    int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Richness:           10,
		CategoryConfidence: 0.9,
		ListConfidence:     0.85,
		KeywordConfidence:  0.7,
		PageConfidence:     0.6,
		MaxDepth:           2,
		ListSearchResults:  5,
		ListMinLinks:       3,
		KeywordMaxResults:  10,
		KeywordMaxLinks:    40,
	}
}
