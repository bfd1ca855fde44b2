package extractor

import (
	"context"
	"errors"

	"category/extractor/internal/domain"
)

var errFake = errors.New("fake source failure")

type fakeKB struct {
	pages   map[string]bool
	members map[string][]domain.Member
	links   map[string][]string
	results map[string][]string
	failing map[string]bool

	searches    []string
	memberCalls []string
}

func newFakeKB() *fakeKB {
	return &fakeKB{
		pages:   make(map[string]bool),
		members: make(map[string][]domain.Member),
		links:   make(map[string][]string),
		results: make(map[string][]string),
		failing: make(map[string]bool),
	}
}

func (f *fakeKB) category(title string, members ...domain.Member) *fakeKB {
	f.pages[title] = true
	f.members[title] = members
	return f
}

func (f *fakeKB) page(title string, links ...string) *fakeKB {
	f.pages[title] = true
	f.links[title] = links
	return f
}

func (f *fakeKB) PageExists(_ context.Context, title string) (bool, error) {
	if f.failing[title] {
		return false, errFake
	}
	return f.pages[title], nil
}

func (f *fakeKB) CategoryMembers(_ context.Context, title string) ([]domain.Member, error) {
	f.memberCalls = append(f.memberCalls, title)
	if f.failing[title] {
		return nil, errFake
	}
	return f.members[title], nil
}

func (f *fakeKB) Links(_ context.Context, title string) ([]string, error) {
	if f.failing["links:"+title] {
		return nil, errFake
	}
	return f.links[title], nil
}

func (f *fakeKB) Search(_ context.Context, query string, limit int) ([]string, error) {
	f.searches = append(f.searches, query)
	if f.failing["search:"+query] {
		return nil, errFake
	}
	titles := f.results[query]
	if len(titles) > limit {
		titles = titles[:limit]
	}
	return titles, nil
}

func leaf(title string) domain.Member {
	return domain.Member{Title: title, Namespace: domain.NamespaceMain}
}

func subcat(title string) domain.Member {
	return domain.Member{Title: title, Namespace: domain.NamespaceCategory}
}

type fakePages struct {
	html      string
	texts     []string
	err       error
	fetched   []string
	selectors [][]string
}

func (f *fakePages) FetchPage(_ context.Context, pageURL string) (string, error) {
	f.fetched = append(f.fetched, pageURL)
	if f.err != nil {
		return "", f.err
	}
	return f.html, nil
}

func (f *fakePages) ExtractTexts(_ string, selectors []string) ([]string, error) {
	f.selectors = append(f.selectors, selectors)
	return f.texts, nil
}
