package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"category/extractor/internal/domain"
)

// Filename builds output_<segments>_<YYYYmmdd_HHMMSS>.json from the
// non-empty path segments, lowercased with spaces replaced by underscores.
func Filename(path domain.CategoryPath, now time.Time) string {
	terms := path.Terms()
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		parts = append(parts, strings.ReplaceAll(strings.ToLower(term), " ", "_"))
	}
	return fmt.Sprintf("output_%s_%s.json", strings.Join(parts, "_"), now.Format("20060102_150405"))
}

// Encode renders products as 2-space indented JSON without HTML or
// non-ASCII escaping.
func Encode(products []domain.ExtractedProduct) ([]byte, error) {
	if products == nil {
		products = []domain.ExtractedProduct{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		return nil, fmt.Errorf("failed to encode products: %w", err)
	}
	return buf.Bytes(), nil
}

func Write(path string, products []domain.ExtractedProduct) error {
	data, err := Encode(products)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
