package feed

import (
	"sort"
	"strings"

	"myShopFeed/domain"
)

const (
	defaultCategoryPenalty = 2.5

	// term overlap: position discount per rank step, rarity boost for
	// bigram terms
	positionDiscount = 0.15
	bigramBoost      = 1.25

	// interest-profile contribution weights
	profileCategoryWeight = 0.6
	profileTermWeight     = 0.25
	profileVendorWeight   = 0.3
	ecoPreferenceBoost    = 0.5

	// tracker contribution, capped so heavy repeat-viewers do not drown
	// out similarity
	affinityWeight    = 0.2
	maxAffinityBoost  = 1.5
	maxProfileTermHit = 12
)

// Candidate pairs a catalog record with its classification.
type Candidate struct {
	Product domain.ProductCandidate
	Intel   domain.ProductIntelligence
}

// RankOptions tunes one ranking request.
type RankOptions struct {
	IncludeDebug    bool
	CategoryPenalty float64
	// decayed tracker scores keyed by normalized handle
	AffinityWeights map[string]float64
}

// RankCandidates scores a candidate batch against a seed classification
// and the interest profile. Pure: identical inputs always produce the
// identical ordering.
func RankCandidates(seed domain.ProductIntelligence, candidates []Candidate, prof domain.InterestProfile, opts RankOptions) []domain.RankedItem {
	if opts.CategoryPenalty <= 0 {
		opts.CategoryPenalty = defaultCategoryPenalty
	}

	seedTerms := make(map[string]struct{}, len(seed.NormalizedTerms))
	for _, t := range seed.NormalizedTerms {
		seedTerms[t] = struct{}{}
	}

	out := make([]domain.RankedItem, 0, len(candidates))
	for _, cand := range candidates {
		item := scoreCandidate(seed, seedTerms, cand, prof, opts)
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if !out[i].Product.CreatedAt.Equal(out[j].Product.CreatedAt) {
			return out[i].Product.CreatedAt.After(out[j].Product.CreatedAt)
		}
		return out[i].Product.Key() < out[j].Product.Key()
	})

	return out
}

func scoreCandidate(seed domain.ProductIntelligence, seedTerms map[string]struct{}, cand Candidate, prof domain.InterestProfile, opts RankOptions) domain.RankedItem {
	var overlap float64
	var matched []string

	// earlier terms are weight-sorted, so position stands in for term
	// importance; bigrams are rarer and match more specifically
	for i, term := range cand.Intel.NormalizedTerms {
		if _, ok := seedTerms[term]; !ok {
			continue
		}
		contribution := 1.0 / (1.0 + positionDiscount*float64(i))
		if strings.ContainsRune(term, '_') {
			contribution *= bigramBoost
		}
		overlap += contribution
		if opts.IncludeDebug {
			matched = append(matched, term)
		}
	}

	profileBoost := profileContribution(cand, prof)

	var affinityBoost float64
	if opts.AffinityWeights != nil {
		affinityBoost = opts.AffinityWeights[cand.Product.Key()] * affinityWeight
		if affinityBoost > maxAffinityBoost {
			affinityBoost = maxAffinityBoost
		}
	}

	var penalty float64
	if seed.PrimaryCategory != domain.CategoryUnknown &&
		cand.Intel.PrimaryCategory != domain.CategoryUnknown &&
		seed.PrimaryCategory != cand.Intel.PrimaryCategory {
		// low-confidence mismatches are penalized less on both sides
		penalty = opts.CategoryPenalty * seed.ConfidenceScore * cand.Intel.ConfidenceScore
	}

	item := domain.RankedItem{
		Product: cand.Product,
		Intel:   cand.Intel,
		Score:   overlap + profileBoost + affinityBoost - penalty,
	}

	if opts.IncludeDebug {
		item.Debug = &domain.RankDebug{
			TermOverlap:     overlap,
			MatchedTerms:    matched,
			ProfileBoost:    profileBoost,
			AffinityBoost:   affinityBoost,
			CategoryPenalty: penalty,
		}
	}

	return item
}

func profileContribution(cand Candidate, prof domain.InterestProfile) float64 {
	var boost float64

	if cand.Intel.PrimaryCategory != domain.CategoryUnknown {
		boost += prof.CategoryWeights[cand.Intel.PrimaryCategory] * profileCategoryWeight
	}

	terms := cand.Intel.NormalizedTerms
	if len(terms) > maxProfileTermHit {
		terms = terms[:maxProfileTermHit]
	}
	for _, t := range terms {
		boost += prof.TermWeights[t] * profileTermWeight
	}

	if cand.Product.Vendor != "" {
		boost += prof.VendorWeights[cand.Product.Vendor] * profileVendorWeight
	}

	if prof.PrefersEco != nil && *prof.PrefersEco && hasEcoMaterial(cand.Intel) {
		boost += ecoPreferenceBoost
	}

	return boost
}

func hasEcoMaterial(intel domain.ProductIntelligence) bool {
	for _, m := range intel.MaterialTokens {
		if m == "organic" || m == "recycled" || m == "bamboo" {
			return true
		}
	}
	return false
}
