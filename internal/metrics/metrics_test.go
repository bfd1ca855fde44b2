package metrics

import (
	"testing"

	"category/extractor/internal/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestProductsBySource_AllKindsRegistered(t *testing.T) {
	assert.Equal(t, len(domain.SourceKinds), testutil.CollectAndCount(ProductsBySource))
}
