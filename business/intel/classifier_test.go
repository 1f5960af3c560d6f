//go:build !integration

package intel

import (
	"testing"
	"time"

	"myShopFeed/domain"
)

func denimCandidate() domain.ProductCandidate {
	return domain.ProductCandidate{
		ID:          "gid://1",
		Handle:      "blue-denim-jeans",
		Title:       "Blue Denim Jeans",
		Vendor:      "Acme Apparel",
		ProductType: "Jeans",
		Tags:        []string{"denim", "blue"},
		CreatedAt:   time.Now(),
	}
}

func underwearCandidate() domain.ProductCandidate {
	return domain.ProductCandidate{
		ID:          "gid://2",
		Handle:      "cotton-boxer-brief",
		Title:       "Cotton Boxer Brief",
		Vendor:      "Acme Apparel",
		ProductType: "Underwear",
		Tags:        []string{"cotton"},
	}
}

func TestClassify_DenimBottoms(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	intel := c.Classify(denimCandidate())
	if intel.PrimaryCategory != domain.CategoryBottomsDenim {
		t.Fatalf("category = %q, want %q", intel.PrimaryCategory, domain.CategoryBottomsDenim)
	}
	if intel.ConfidenceScore < 0.34 {
		t.Errorf("confidence = %f, expected above threshold", intel.ConfidenceScore)
	}
	if intel.SubCategory == "" {
		t.Errorf("expected a sub category for a confident match")
	}
}

func TestClassify_Underwear(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	intel := c.Classify(underwearCandidate())
	if intel.PrimaryCategory != domain.CategoryUnderwear {
		t.Fatalf("category = %q, want %q", intel.PrimaryCategory, domain.CategoryUnderwear)
	}

	foundCotton := false
	for _, m := range intel.MaterialTokens {
		if m == "cotton" {
			foundCotton = true
		}
	}
	if !foundCotton {
		t.Errorf("material tokens = %v, expected cotton", intel.MaterialTokens)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	a := NewClassifier(DefaultConfig()).Classify(denimCandidate())
	b := NewClassifier(DefaultConfig()).Classify(denimCandidate())

	if a.PrimaryCategory != b.PrimaryCategory || a.ConfidenceScore != b.ConfidenceScore {
		t.Fatalf("classification not deterministic: %+v vs %+v", a, b)
	}
	if len(a.NormalizedTerms) != len(b.NormalizedTerms) {
		t.Fatalf("term counts differ: %d vs %d", len(a.NormalizedTerms), len(b.NormalizedTerms))
	}
	for i := range a.NormalizedTerms {
		if a.NormalizedTerms[i] != b.NormalizedTerms[i] {
			t.Fatalf("terms differ at %d: %q vs %q", i, a.NormalizedTerms[i], b.NormalizedTerms[i])
		}
	}
}

func TestClassify_EmptyCandidateIsUnknown(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	intel := c.Classify(domain.ProductCandidate{ID: "empty"})
	if intel.PrimaryCategory != domain.CategoryUnknown {
		t.Fatalf("category = %q, want unknown", intel.PrimaryCategory)
	}
	if intel.ConfidenceScore < 0 || intel.ConfidenceScore > 1 {
		t.Errorf("confidence out of range: %f", intel.ConfidenceScore)
	}
	if len(intel.MaterialTokens) != 0 {
		t.Errorf("expected no attribute tokens, got %v", intel.MaterialTokens)
	}
}

func TestClassify_ConfidenceAlwaysInRange(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	candidates := []domain.ProductCandidate{
		denimCandidate(),
		underwearCandidate(),
		{Title: "Mystery Box"},
		{Title: "Wool Sweater Cardigan Knit", ProductType: "Knitwear"},
		{Title: "Running Shoes Trail Sneaker", Tags: []string{"footwear"}},
	}

	for _, cand := range candidates {
		intel := c.Classify(cand)
		if intel.ConfidenceScore < 0 || intel.ConfidenceScore > 1 {
			t.Errorf("confidence out of [0,1] for %q: %f", cand.Title, intel.ConfidenceScore)
		}
		if intel.QualityScore < 0 || intel.QualityScore > 1 {
			t.Errorf("quality out of [0,1] for %q: %f", cand.Title, intel.QualityScore)
		}
	}
}

func TestClassify_CacheReturnsSameInstance(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	first := c.Classify(denimCandidate())
	second := c.Classify(denimCandidate())
	if first != second {
		t.Fatal("expected the same cached instance for repeated lookups")
	}
}

func TestClassify_CacheEvictsOldestFirst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 2
	c := NewClassifier(cfg)

	first := c.Classify(denimCandidate())
	c.Classify(underwearCandidate())
	c.Classify(domain.ProductCandidate{Handle: "third-product", Title: "Wool Scarf"})

	// first key was evicted; a new lookup recomputes
	again := c.Classify(denimCandidate())
	if first == again {
		t.Fatal("expected oldest entry to have been evicted")
	}
	if len(c.cache) > 2 {
		t.Fatalf("cache size = %d, want <= 2", len(c.cache))
	}
}

func TestClassify_DenimSuppressesUnderwearOverlap(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	// fires both denim and underwear rules
	intel := c.Classify(domain.ProductCandidate{
		Handle: "denim-boxer",
		Title:  "Denim Boxer",
	})

	if intel.PrimaryCategory == "" {
		t.Fatal("expected a category decision")
	}
	if intel.ConfidenceScore < 0 || intel.ConfidenceScore > 1 {
		t.Errorf("confidence out of range: %f", intel.ConfidenceScore)
	}
}

func TestQualityScore_RewardsRicherRecords(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	sparse := c.Classify(domain.ProductCandidate{ID: "sparse", Title: "Sweater"})
	rich := c.Classify(denimCandidate())

	if rich.QualityScore <= sparse.QualityScore {
		t.Errorf("quality: rich=%f sparse=%f, expected rich > sparse",
			rich.QualityScore, sparse.QualityScore)
	}
}
