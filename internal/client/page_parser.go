package client

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

type pageParser struct{}

func newPageParser() *pageParser {
	return &pageParser{}
}

// ExtractTexts returns the visible text of every element matching each
// selector, selectors taken in priority order. Empty texts are dropped.
func (p *pageParser) ExtractTexts(html string, selectors []string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Script and style bodies are never visible text
	doc.Find("script, style, noscript, template").Remove()

	var texts []string
	for _, selector := range selectors {
		matched := 0
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text == "" {
				return
			}
			texts = append(texts, text)
			matched++
		})
		log.Debugf("Selector %q matched %d elements", selector, matched)
	}

	return texts, nil
}
