package domain

// Category values assigned by the product intelligence classifier.
const (
	CategoryUnknown      = "unknown"
	CategoryTops         = "tops"
	CategoryBottoms      = "bottoms"
	CategoryBottomsDenim = "bottoms_denim"
	CategoryUnderwear    = "underwear"
	CategoryOuterwear    = "outerwear"
	CategoryKnitwear     = "knitwear"
	CategoryDresses      = "dresses"
	CategoryFootwear     = "footwear"
	CategoryAccessories  = "accessories"
	CategoryActivewear   = "activewear"
	CategorySwimwear     = "swimwear"
)

// ProductIntelligence is the derived, cached classification of a single
// catalog record. Purely a function of the candidate's textual and
// structured fields.
type ProductIntelligence struct {
	PrimaryCategory string   `json:"primary_category"`
	SubCategory     string   `json:"sub_category,omitempty"`
	ConfidenceScore float64  `json:"confidence_score"`
	QualityScore    float64  `json:"quality_score"`
	StyleTokens     []string `json:"style_tokens,omitempty"`
	MaterialTokens  []string `json:"material_tokens,omitempty"`
	FitTokens       []string `json:"fit_tokens,omitempty"`
	ColorTokens     []string `json:"color_tokens,omitempty"`
	UseCaseTokens   []string `json:"use_case_tokens,omitempty"`
	NormalizedTerms []string `json:"normalized_terms,omitempty"`
}
