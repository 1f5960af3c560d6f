package intel

import (
	"sort"
	"strings"
	"sync"

	"myShopFeed/business/signals"
	"myShopFeed/domain"
)

// Classifier assigns a category, confidence and attribute tokens to
// catalog records and memoizes the result per handle. Classification is a
// pure function of the candidate's fields; the cache only saves repeated
// work.
type Classifier struct {
	cfg Config

	mu    sync.Mutex
	cache map[string]*domain.ProductIntelligence
	order []string // insertion order, oldest first
}

func NewClassifier(cfg Config) *Classifier {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	return &Classifier{
		cfg:   cfg,
		cache: make(map[string]*domain.ProductIntelligence),
	}
}

// Classify returns the intelligence record for a candidate. Repeated
// lookups for the same key return the same cached instance.
func (c *Classifier) Classify(p domain.ProductCandidate) *domain.ProductIntelligence {
	key := p.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	if key != "" {
		if cached, ok := c.cache[key]; ok {
			classifierCacheHits.Inc()
			return cached
		}
	}
	classifierCacheMisses.Inc()

	intel := c.classify(p)

	if key != "" {
		c.cache[key] = intel
		c.order = append(c.order, key)
		for len(c.cache) > c.cfg.CacheSize && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.cache, oldest)
		}
	}

	return intel
}

// Reset drops the memoization table. Used between tests and on catalog
// refreshes.
func (c *Classifier) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*domain.ProductIntelligence)
	c.order = nil
}

type weightedTerm struct {
	Term   string
	Weight float64
}

func (c *Classifier) classify(p domain.ProductCandidate) *domain.ProductIntelligence {
	titleTokens := signals.Tokenize(p.Title)
	handleTokens := signals.Tokenize(p.Handle)
	vendorTokens := signals.Tokenize(p.Vendor)
	typeTokens := signals.Tokenize(p.ProductType)
	derived := deriveTags(p, titleTokens, handleTokens, vendorTokens, typeTokens)
	content := signals.ExtractFromCandidate(p)

	var imageTokens []string
	for _, img := range p.Images {
		imageTokens = append(imageTokens, signals.FilenameTokens(img.URL)...)
	}

	weights := make(map[string]float64)
	addTerms(weights, titleTokens, weightTitle)
	addTerms(weights, typeTokens, weightProductType)
	addTerms(weights, derived, weightDerivedTags)
	addTerms(weights, content, weightContentSignals)
	addTerms(weights, handleTokens, weightHandle)
	addTerms(weights, imageTokens, weightImageFilename)
	addTerms(weights, vendorTokens, weightVendor)

	terms := sortedTerms(weights, c.cfg.MaxNormalizedTerms)

	category, subCategory, confidence := c.classifyCategory(terms)

	intel := &domain.ProductIntelligence{
		PrimaryCategory: category,
		SubCategory:     subCategory,
		ConfidenceScore: confidence,
		NormalizedTerms: terms,
		MaterialTokens:  filterVocab(terms, materialVocab, c.cfg.MaxAttributeTokens),
		FitTokens:       filterVocab(terms, fitVocab, c.cfg.MaxAttributeTokens),
		ColorTokens:     filterVocab(terms, colorVocab, c.cfg.MaxAttributeTokens),
		StyleTokens:     filterVocab(terms, styleVocab, c.cfg.MaxAttributeTokens),
		UseCaseTokens:   filterVocab(terms, useCaseVocab, c.cfg.MaxAttributeTokens),
	}
	intel.QualityScore = qualityScore(p, len(terms), confidence)

	return intel
}

func addTerms(weights map[string]float64, terms []string, weight float64) {
	for _, t := range terms {
		if len(t) < 3 || signals.IsStopword(t) {
			continue
		}
		weights[t] += weight
	}
}

// sortedTerms orders terms by total weight descending; equal weights fall
// back to lexical order so output is deterministic.
func sortedTerms(weights map[string]float64, limit int) []string {
	terms := make([]weightedTerm, 0, len(weights))
	for t, w := range weights {
		terms = append(terms, weightedTerm{Term: t, Weight: w})
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Weight != terms[j].Weight {
			return terms[i].Weight > terms[j].Weight
		}
		return terms[i].Term < terms[j].Term
	})

	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}

	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Term
	}
	return out
}

// deriveTags expands tags and structured-field tokens through the alias
// table. Deterministic: expansion preserves source order.
func deriveTags(p domain.ProductCandidate, tokenSources ...[]string) []string {
	var raw []string
	for _, tag := range p.Tags {
		raw = append(raw, signals.Tokenize(tag)...)
	}
	for _, src := range tokenSources {
		raw = append(raw, src...)
	}

	seen := make(map[string]struct{}, len(raw))
	var out []string
	add := func(t string) {
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	for _, t := range raw {
		add(t)
		for _, alias := range termAliases[t] {
			add(alias)
		}
	}

	return out
}

// classifyCategory runs the keyword rules over the normalized terms and
// picks the top category with a confidence score.
func (c *Classifier) classifyCategory(terms []string) (category, subCategory string, confidence float64) {
	termSet := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		termSet[t] = struct{}{}
	}
	joined := " " + strings.Join(terms, " ") + " "

	type categoryScore struct {
		Category    string
		Score       float64
		BestKeyword string
		bestScore   float64
	}

	scores := make([]categoryScore, 0, len(categoryRules))
	for _, rule := range categoryRules {
		cs := categoryScore{Category: rule.Category}
		for _, kw := range rule.Keywords {
			var s float64
			if strings.ContainsRune(kw, ' ') {
				// bigram terms carry the phrase with an underscore
				underscored := strings.ReplaceAll(kw, " ", "_")
				if strings.Contains(joined, " "+kw+" ") || strings.Contains(joined, " "+underscored+" ") {
					s = scorePhrase
				}
			} else if _, ok := termSet[kw]; ok {
				s = scoreSingleWord
			} else if strings.HasSuffix(kw, "s") {
				if _, ok := termSet[strings.TrimSuffix(kw, "s")]; ok {
					s = scorePluralOnly
				}
			}
			if s > 0 {
				cs.Score += s
				if s > cs.bestScore {
					cs.bestScore = s
					cs.BestKeyword = kw
				}
			}
		}
		scores = append(scores, cs)
	}

	// fixed biases resolve lexical overlap with the generic bottoms rules
	var denimIdx, underwearIdx = -1, -1
	for i := range scores {
		switch scores[i].Category {
		case domain.CategoryBottomsDenim:
			denimIdx = i
			if scores[i].Score > 0 {
				scores[i].Score += c.cfg.DenimBias
			}
		case domain.CategoryUnderwear:
			underwearIdx = i
			if scores[i].Score > 0 {
				scores[i].Score += c.cfg.UnderwearBias
			}
		}
	}

	// mutual suppression when both denim and underwear fire
	if denimIdx >= 0 && underwearIdx >= 0 &&
		scores[denimIdx].Score > 0 && scores[underwearIdx].Score > 0 {
		if scores[denimIdx].Score >= scores[underwearIdx].Score {
			scores[denimIdx].Score -= c.cfg.SuppressionPenalty
		} else {
			scores[underwearIdx].Score -= c.cfg.SuppressionPenalty
		}
	}

	top, second := 0.0, 0.0
	topIdx := -1
	for i, cs := range scores {
		if cs.Score > top {
			second = top
			top = cs.Score
			topIdx = i
		} else if cs.Score > second {
			second = cs.Score
		}
	}

	confidence = clamp01(top / (top + second + 1))

	if topIdx < 0 || top < c.cfg.MinCategoryScore || confidence < c.cfg.MinConfidence {
		return domain.CategoryUnknown, "", confidence
	}

	sub := strings.ReplaceAll(scores[topIdx].BestKeyword, " ", "_")
	return scores[topIdx].Category, sub, confidence
}

func filterVocab(terms []string, vocab map[string]struct{}, limit int) []string {
	var out []string
	for _, t := range terms {
		if _, ok := vocab[t]; ok {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func qualityScore(p domain.ProductCandidate, termCount int, confidence float64) float64 {
	var score float64
	if strings.TrimSpace(p.ProductType) != "" {
		score += 0.2
	}
	score += minFloat(0.3, float64(len(p.Tags))*0.05)
	score += minFloat(0.3, float64(termCount)/80)
	score += minFloat(0.2, confidence*0.2)
	return clamp01(score)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
