package domain

import (
	"fmt"
	"strings"
)

// CategoryPath is the 1–3 level path an extraction run is scoped to.
type CategoryPath struct {
	Main   string `json:"main"`
	Sub    string `json:"sub,omitempty"`
	SubSub string `json:"subsub,omitempty"`
}

func NewCategoryPath(main, sub, subsub string) (CategoryPath, error) {
	p := CategoryPath{
		Main:   strings.TrimSpace(main),
		Sub:    strings.TrimSpace(sub),
		SubSub: strings.TrimSpace(subsub),
	}
	if err := p.Validate(); err != nil {
		return CategoryPath{}, err
	}
	return p, nil
}

func (p CategoryPath) Validate() error {
	if p.Main == "" {
		return fmt.Errorf("%w: main category is required", ErrInvalidRequest)
	}
	return nil
}

// Terms returns the non-empty segments, most general first.
func (p CategoryPath) Terms() []string {
	terms := make([]string, 0, 3)
	for _, t := range []string{p.Main, p.Sub, p.SubSub} {
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

func (p CategoryPath) String() string {
	return strings.Join(p.Terms(), " / ")
}

type CandidateKind string

const (
	CandidateCategory CandidateKind = "category"
	CandidateListPage CandidateKind = "list_page"
)

// CandidateIdentifier names a knowledge-base lookup target.
type CandidateIdentifier struct {
	Title string        `json:"title"` // Full title, e.g. "Category:Citrus" or "List of citrus"
	Kind  CandidateKind `json:"kind"`
}

// Namespace mirrors the MediaWiki namespace numbers the walker cares about.
type Namespace int

const (
	NamespaceMain     Namespace = 0
	NamespaceCategory Namespace = 14
)

// Member is one entry of a category listing.
type Member struct {
	Title     string    `json:"title"`
	Namespace Namespace `json:"ns"`
}

func (m Member) IsLeaf() bool {
	return m.Namespace == NamespaceMain
}

func (m Member) IsCategory() bool {
	return m.Namespace == NamespaceCategory
}
