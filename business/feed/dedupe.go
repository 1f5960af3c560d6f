package feed

import "myShopFeed/domain"

// DedupeCandidates removes catalog records sharing a normalized handle,
// keeping the first occurrence. Returns the survivors and the number of
// duplicates removed.
func DedupeCandidates(items []domain.ProductCandidate) ([]domain.ProductCandidate, int) {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.ProductCandidate, 0, len(items))
	removed := 0

	for _, item := range items {
		key := item.Key()
		if key == "" {
			out = append(out, item)
			continue
		}
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}

	return out, removed
}

// dedupeRanked is the defensive page-level variant of DedupeCandidates.
func dedupeRanked(items []domain.RankedItem) ([]domain.RankedItem, int) {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.RankedItem, 0, len(items))
	removed := 0

	for _, item := range items {
		key := item.Product.Key()
		if key == "" {
			out = append(out, item)
			continue
		}
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}

	return out, removed
}
