package domain

// ProductAffinity is the cumulative implicit-interest record for a single
// product handle. Timestamps are epoch milliseconds.
type ProductAffinity struct {
	RawScore           float64 `json:"raw_score"`
	ViewCount          int     `json:"view_count"`
	AddToCartCount     int     `json:"add_to_cart_count"`
	FirstInteractionAt int64   `json:"first_interaction_at"`
	LastInteractionAt  int64   `json:"last_interaction_at"`
}

// WeightedProduct pairs a tracked handle with its decayed interest score.
type WeightedProduct struct {
	Handle        string          `json:"handle"`
	WeightedScore float64         `json:"weighted_score"`
	Affinity      ProductAffinity `json:"affinity"`
}
