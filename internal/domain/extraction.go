package domain

// ExtractionRequest is the input of one extraction run.
type ExtractionRequest struct {
	Path        CategoryPath `json:"path"`
	RetailerURL string       `json:"retailer_url,omitempty"`
}

// ExtractionResult is the service-boundary response body.
type ExtractionResult struct {
	CategoryPath []*string          `json:"category_path"`
	Count        int                `json:"count"`
	Products     []ExtractedProduct `json:"products"`
}

func NewExtractionResult(path CategoryPath, products []ExtractedProduct) *ExtractionResult {
	if products == nil {
		products = []ExtractedProduct{}
	}
	return &ExtractionResult{
		CategoryPath: []*string{optional(path.Main), optional(path.Sub), optional(path.SubSub)},
		Count:        len(products),
		Products:     products,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
