package extractor

import (
	"testing"

	"category/extractor/internal/domain"

	"github.com/stretchr/testify/assert"
)

func titles(candidates []domain.CandidateIdentifier) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Title)
	}
	return out
}

func TestGenerateCandidates_FullPath(t *testing.T) {
	path := domain.CategoryPath{Main: "Electronics", Sub: "Laptops", SubSub: "Gaming"}

	got := GenerateCandidates(path)

	assert.Equal(t, []string{
		"Category:Electronics/Laptops/Gaming",
		"Category:Gaming",
		"Category:Laptops",
		"Category:Gamings",
		"List of Gaming",
		"List of Laptops",
	}, titles(got))

	assert.Equal(t, domain.CandidateCategory, got[0].Kind)
	assert.Equal(t, domain.CandidateCategory, got[3].Kind)
	assert.Equal(t, domain.CandidateListPage, got[4].Kind)
	assert.Equal(t, domain.CandidateListPage, got[5].Kind)
}

func TestGenerateCandidates_MainAndSub(t *testing.T) {
	got := GenerateCandidates(domain.CategoryPath{Main: "Fruit", Sub: "Citrus"})

	assert.Equal(t, []string{"Category:Fruit/Citrus", "Category:Citrus", "List of Citrus"}, titles(got))
}

func TestGenerateCandidates_MainOnly(t *testing.T) {
	got := GenerateCandidates(domain.CategoryPath{Main: "Fruit"})

	assert.Equal(t, []string{"Category:Fruit"}, titles(got))
}

func TestGenerateCandidates_Deduplicates(t *testing.T) {
	got := GenerateCandidates(domain.CategoryPath{Main: "Cars", Sub: "Cars", SubSub: "Cars"})

	assert.Equal(t, []string{
		"Category:Cars/Cars/Cars",
		"Category:Cars",
		"Category:Carss",
		"List of Cars",
	}, titles(got))
}
