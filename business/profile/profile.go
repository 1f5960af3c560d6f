package profile

import (
	"math"
	"sort"

	"myShopFeed/domain"
)

const (
	// decay matches the affinity tracker's half-life model
	halfLifeHours = 72.0

	maxCategoryEntries = 32
	maxTermEntries     = 120
	maxVendorEntries   = 40

	// event weights per type
	weightProductOpen    = 1.0
	weightProductView    = 0.4
	weightCollectionOpen = 0.6

	// how much of an event's weight each secondary signal receives
	termShare   = 0.35
	vendorShare = 0.5

	// how many event terms are folded in; the rest carry no signal
	maxEventTerms = 10

	// weights below this are dropped during pruning
	minWeight = 0.001
)

// CreateEmpty returns a zeroed profile stamped with the given time
// (epoch millis).
func CreateEmpty(nowMillis int64) domain.InterestProfile {
	return domain.InterestProfile{
		SchemaVersion:   domain.ProfileSchemaVersion,
		UpdatedAt:       nowMillis,
		CategoryWeights: map[string]float64{},
		TermWeights:     map[string]float64{},
		VendorWeights:   map[string]float64{},
	}
}

func eventWeight(eventType string) float64 {
	switch eventType {
	case domain.ProfileEventProductOpen:
		return weightProductOpen
	case domain.ProfileEventProductView:
		return weightProductView
	case domain.ProfileEventCollectionOpen:
		return weightCollectionOpen
	default:
		return 0
	}
}

// ApplyEvent folds one discrete event into the profile and returns the
// updated copy; the input profile is not mutated. Existing signal decays
// by the elapsed time between updates before the new weight lands.
func ApplyEvent(p domain.InterestProfile, ev domain.ProfileEvent) domain.InterestProfile {
	out := clone(p)

	w := eventWeight(ev.Type)
	if w == 0 {
		return out
	}

	if ev.OccurredAt > out.UpdatedAt && out.UpdatedAt > 0 {
		hours := float64(ev.OccurredAt-out.UpdatedAt) / (1000 * 60 * 60)
		decayMaps(math.Pow(0.5, hours/halfLifeHours), out.CategoryWeights, out.TermWeights, out.VendorWeights)
	}

	if ev.Category != "" && ev.Category != domain.CategoryUnknown {
		out.CategoryWeights[ev.Category] += w
	}
	if ev.Vendor != "" {
		out.VendorWeights[ev.Vendor] += w * vendorShare
	}
	terms := ev.Terms
	if len(terms) > maxEventTerms {
		terms = terms[:maxEventTerms]
	}
	for _, t := range terms {
		if t == "" {
			continue
		}
		out.TermWeights[t] += w * termShare
	}

	if ev.OccurredAt > out.UpdatedAt {
		out.UpdatedAt = ev.OccurredAt
	}

	return Prune(out)
}

// SetDeclaredPreference records the user's explicit eco preference.
func SetDeclaredPreference(p domain.InterestProfile, prefersEco bool) domain.InterestProfile {
	out := clone(p)
	out.PrefersEco = &prefersEco
	return out
}

// Prune bounds the profile's signal tables, dropping the lowest weights
// first. Pure; returns a bounded copy.
func Prune(p domain.InterestProfile) domain.InterestProfile {
	out := clone(p)
	out.CategoryWeights = pruneMap(out.CategoryWeights, maxCategoryEntries)
	out.TermWeights = pruneMap(out.TermWeights, maxTermEntries)
	out.VendorWeights = pruneMap(out.VendorWeights, maxVendorEntries)
	return out
}

func pruneMap(m map[string]float64, limit int) map[string]float64 {
	type entry struct {
		key    string
		weight float64
	}

	entries := make([]entry, 0, len(m))
	for k, w := range m {
		if w < minWeight {
			continue
		}
		entries = append(entries, entry{key: k, weight: w})
	}

	if len(entries) > limit {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].weight != entries[j].weight {
				return entries[i].weight > entries[j].weight
			}
			return entries[i].key < entries[j].key
		})
		entries = entries[:limit]
	}

	out := make(map[string]float64, len(entries))
	for _, e := range entries {
		out[e.key] = e.weight
	}
	return out
}

// Normalize defensively reconstructs a profile from untyped stored data.
// Every missing or mistyped field falls back to a safe default, so a
// legacy-format snapshot can never corrupt the ranking path.
func Normalize(raw map[string]any, nowMillis int64) domain.InterestProfile {
	out := CreateEmpty(nowMillis)
	if raw == nil {
		return out
	}

	if v, ok := raw["updated_at"].(float64); ok && v > 0 {
		out.UpdatedAt = int64(v)
	}

	// schema_version is intentionally ignored: normalization always emits
	// the current shape, whatever version the snapshot claimed.
	out.CategoryWeights = coerceWeightMap(raw["category_weights"])
	out.TermWeights = coerceWeightMap(raw["term_weights"])
	out.VendorWeights = coerceWeightMap(raw["vendor_weights"])

	// legacy snapshots stored a flat "interests" table of terms
	if legacy := coerceWeightMap(raw["interests"]); len(legacy) > 0 && len(out.TermWeights) == 0 {
		out.TermWeights = legacy
	}

	if v, ok := raw["prefers_eco"].(bool); ok {
		out.PrefersEco = &v
	}

	return Prune(out)
}

func coerceWeightMap(v any) map[string]float64 {
	out := map[string]float64{}
	m, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for k, raw := range m {
		if k == "" {
			continue
		}
		if w, ok := raw.(float64); ok && w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w) {
			out[k] = w
		}
	}
	return out
}

// Summary trims a profile down to its strongest signals for inspection.
func Summary(p domain.InterestProfile, topN int) domain.ProfileSummary {
	return domain.ProfileSummary{
		TopCategories: topWeights(p.CategoryWeights, topN),
		TopTerms:      topWeights(p.TermWeights, topN),
		UpdatedAt:     p.UpdatedAt,
	}
}

func topWeights(m map[string]float64, topN int) map[string]float64 {
	return pruneMap(m, topN)
}

func decayMaps(factor float64, maps ...map[string]float64) {
	for _, m := range maps {
		for k := range m {
			m[k] *= factor
		}
	}
}

func clone(p domain.InterestProfile) domain.InterestProfile {
	out := p
	out.CategoryWeights = cloneMap(p.CategoryWeights)
	out.TermWeights = cloneMap(p.TermWeights)
	out.VendorWeights = cloneMap(p.VendorWeights)
	if out.SchemaVersion == 0 {
		out.SchemaVersion = domain.ProfileSchemaVersion
	}
	return out
}

func cloneMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
