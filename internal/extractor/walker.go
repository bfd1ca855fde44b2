package extractor

import (
	"context"

	"category/extractor/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// TreeWalker collects leaf entries below a knowledge-base category.
type TreeWalker struct {
	kb KnowledgeBase
}

func NewTreeWalker(kb KnowledgeBase) *TreeWalker {
	return &TreeWalker{kb: kb}
}

// Walk returns the titles of leaf entries reachable from category within
// maxDepth subcategory hops. The root's own leaves are depth 0.
func (w *TreeWalker) Walk(ctx context.Context, category string, maxDepth int) []string {
	visited := make(map[string]int)
	return w.walk(ctx, category, 0, maxDepth, visited)
}

func (w *TreeWalker) walk(ctx context.Context, category string, level, maxDepth int, visited map[string]int) []string {
	if level > maxDepth || ctx.Err() != nil {
		return nil
	}
	// A category already expanded at the same or a shallower level cannot add anything.
	if seenAt, ok := visited[category]; ok && seenAt <= level {
		return nil
	}
	visited[category] = level

	members, err := w.kb.CategoryMembers(ctx, category)
	if err != nil {
		metrics.LookupFailures.WithLabelValues("category_members").Inc()
		log.Debugf("Failed to list members of %s: %v", category, err)
		return nil
	}

	var leaves []string
	for _, member := range members {
		switch {
		case member.IsLeaf():
			leaves = append(leaves, member.Title)
		case member.IsCategory():
			leaves = append(leaves, w.walk(ctx, member.Title, level+1, maxDepth, visited)...)
		}
	}
	return leaves
}
