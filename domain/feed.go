package domain

import "time"

// RankDebug carries the score breakdown for one ranked candidate. Only
// populated when debug output is requested.
type RankDebug struct {
	TermOverlap     float64  `json:"term_overlap"`
	MatchedTerms    []string `json:"matched_terms,omitempty"`
	ProfileBoost    float64  `json:"profile_boost"`
	AffinityBoost   float64  `json:"affinity_boost"`
	CategoryPenalty float64  `json:"category_penalty"`
}

// RankedItem is a candidate with its final ranking score.
type RankedItem struct {
	Product ProductCandidate    `json:"product"`
	Intel   ProductIntelligence `json:"intel"`
	Score   float64             `json:"score"`
	Debug   *RankDebug          `json:"__debug,omitempty"`
}

// FeedPage is one page of the "for you" feed.
type FeedPage struct {
	Items             []RankedItem `json:"items"`
	PageDepth         int          `json:"page_depth"`
	Seed              string       `json:"seed"`
	ExploreCount      int          `json:"explore_count"`
	DuplicatesRemoved int          `json:"duplicates_removed"`
	GeneratedAt       time.Time    `json:"generated_at"`
}

// DebugSnapshot is what the observability sink receives after a page is
// built. Must never feed back into ranking.
type DebugSnapshot struct {
	SeedHandle     string                `json:"seed_handle"`
	SeedCategory   string                `json:"seed_category"`
	PageDepth      int                   `json:"page_depth"`
	TopItems       []RankedItem          `json:"top_items"`
	ProfileSummary ProfileSummary        `json:"profile_summary"`
	Samples        []ProductIntelligence `json:"samples,omitempty"`
	GeneratedAt    time.Time             `json:"generated_at"`
}

// ProfileSummary is a trimmed view of an InterestProfile for inspection.
type ProfileSummary struct {
	TopCategories map[string]float64 `json:"top_categories"`
	TopTerms      map[string]float64 `json:"top_terms"`
	UpdatedAt     int64              `json:"updated_at"`
}
