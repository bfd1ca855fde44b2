package extractor

import (
	"context"

	"category/extractor/internal/domain"
)

// KnowledgeBase is the structured source consulted first.
type KnowledgeBase interface {
	PageExists(ctx context.Context, title string) (bool, error)
	CategoryMembers(ctx context.Context, title string) ([]domain.Member, error)
	Links(ctx context.Context, title string) ([]string, error)
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// PageSource fetches arbitrary pages and selects text out of them.
type PageSource interface {
	FetchPage(ctx context.Context, pageURL string) (string, error)
	ExtractTexts(html string, selectors []string) ([]string, error)
}
