package domain

type SourceKind string

func (s SourceKind) String() string {
	return string(s)
}

const (
	SourceStructuredCategory SourceKind = "structured_category" // Leaf entry under a knowledge-base category
	SourceStructuredList     SourceKind = "structured_list"     // Link harvested from a "List of ..." page
	SourceKeywordSearch      SourceKind = "keyword_search"      // Search result title
	SourceKeywordSearchLink  SourceKind = "keyword_search_link" // Outbound link of a search result
	SourceUnstructuredPage   SourceKind = "unstructured_page"   // Text scraped from a caller-supplied page
)

var SourceKinds = []SourceKind{
	SourceStructuredCategory,
	SourceStructuredList,
	SourceKeywordSearch,
	SourceKeywordSearchLink,
	SourceUnstructuredPage,
}

// RawCandidate is a single name produced by one extraction strategy, before aggregation.
type RawCandidate struct {
	Name       string     `json:"name"`
	Source     SourceKind `json:"source"`
	SourceRef  string     `json:"source_ref"`
	Confidence float64    `json:"confidence"`
}

// ExtractedProduct is one entry of the ranked output.
type ExtractedProduct struct {
	Name       string     `json:"name"`
	Source     SourceKind `json:"source"`
	SourceRef  string     `json:"source_ref"`
	Confidence float64    `json:"confidence"`
}
