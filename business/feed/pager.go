package feed

import (
	"sort"
	"time"

	"myShopFeed/domain"
)

const (
	defaultPageSize         = 12
	defaultExplorationRatio = 0.25
)

// PageOptions control the deterministic composition of one feed page.
type PageOptions struct {
	PageDepth        int
	ExplorationRatio float64
	Seed             string
}

// SelectPage deterministically slices a ranked list into one feed page.
// The front of the list (offset by PageDepth pages) fills the
// exploitation slots; the remainder is sampled without replacement from
// the ranked tail using a generator seeded by the Seed string, then
// interleaved at seeded positions. Identical inputs and seed give a
// bit-identical page.
func SelectPage(ranked []domain.RankedItem, pageSize int, opts PageOptions) domain.FeedPage {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if opts.PageDepth < 0 {
		opts.PageDepth = 0
	}
	ratio := opts.ExplorationRatio
	if ratio < 0 {
		ratio = 0
	}
	if ratio >= 1 {
		ratio = defaultExplorationRatio
	}

	page := domain.FeedPage{
		PageDepth:   opts.PageDepth,
		Seed:        opts.Seed,
		GeneratedAt: time.Now(),
	}

	start := opts.PageDepth * pageSize
	if start >= len(ranked) {
		page.Items = []domain.RankedItem{}
		return page
	}

	exploreCount := int(float64(pageSize) * ratio)
	exploitCount := pageSize - exploreCount

	exploit := ranked[start:]
	if len(exploit) > exploitCount {
		exploit = exploit[:exploitCount]
	}

	tail := ranked[start+len(exploit):]

	rng := newSeededRand(opts.Seed)
	explore := sampleWithoutReplacement(tail, exploreCount, rng)

	page.ExploreCount = len(explore)
	page.Items = interleave(exploit, explore, rng)

	page.Items, page.DuplicatesRemoved = dedupeRanked(page.Items)
	return page
}

// sampleWithoutReplacement picks up to n items from the tail by seeded
// index selection.
func sampleWithoutReplacement(tail []domain.RankedItem, n int, rng *seededRand) []domain.RankedItem {
	if n <= 0 || len(tail) == 0 {
		return nil
	}
	if n > len(tail) {
		n = len(tail)
	}

	indices := make([]int, len(tail))
	for i := range indices {
		indices[i] = i
	}

	out := make([]domain.RankedItem, 0, n)
	remaining := len(indices)
	for len(out) < n && remaining > 0 {
		pick := rng.Intn(remaining)
		out = append(out, tail[indices[pick]])
		indices[pick] = indices[remaining-1]
		remaining--
	}

	return out
}

// interleave merges exploitation and exploration items: explore items
// land at seeded slot positions, exploit items fill the rest in ranked
// order.
func interleave(exploit, explore []domain.RankedItem, rng *seededRand) []domain.RankedItem {
	total := len(exploit) + len(explore)
	if total == 0 {
		return []domain.RankedItem{}
	}
	if len(explore) == 0 {
		return append([]domain.RankedItem{}, exploit...)
	}

	// pick distinct slots for the exploration items
	slots := make([]int, 0, len(explore))
	used := make(map[int]struct{}, len(explore))
	for len(slots) < len(explore) {
		s := rng.Intn(total)
		if _, taken := used[s]; taken {
			// deterministic linear probe keeps selection cheap
			for {
				s = (s + 1) % total
				if _, taken := used[s]; !taken {
					break
				}
			}
		}
		used[s] = struct{}{}
		slots = append(slots, s)
	}
	sort.Ints(slots)

	out := make([]domain.RankedItem, total)
	placed := make([]bool, total)
	for i, s := range slots {
		out[s] = explore[i]
		placed[s] = true
	}

	idx := 0
	for _, item := range exploit {
		for placed[idx] {
			idx++
		}
		out[idx] = item
		placed[idx] = true
	}

	return out
}
