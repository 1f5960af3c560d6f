package intel

import (
	"myShopFeed/domain"
)

// categoryRule binds a category to its keyword list. Single-word keywords
// are matched against the term set, multi-word keywords against the
// space-joined term string.
type categoryRule struct {
	Category string
	Keywords []string
}

// categoryRules is ordered; the order is the deterministic tie-break when
// two categories end up with identical scores.
var categoryRules = []categoryRule{
	{
		Category: domain.CategoryBottomsDenim,
		Keywords: []string{
			"denim", "jeans", "jean", "selvedge", "raw denim", "skinny jeans",
			"straight leg", "wide leg jeans", "denim short", "denim shorts",
		},
	},
	{
		Category: domain.CategoryUnderwear,
		Keywords: []string{
			"boxer", "boxers", "brief", "briefs", "boxer brief", "underwear",
			"thong", "panties", "lingerie", "bralette", "undershirt",
		},
	},
	{
		Category: domain.CategoryBottoms,
		Keywords: []string{
			"pants", "pant", "trousers", "trouser", "chinos", "chino",
			"shorts", "skirt", "leggings", "joggers", "jogger", "cargo pant",
			"bottoms",
		},
	},
	{
		Category: domain.CategoryTops,
		Keywords: []string{
			"shirt", "shirts", "tee", "tees", "tshirt", "top", "tops",
			"blouse", "tank", "polo", "henley", "long sleeve", "short sleeve",
			"button down",
		},
	},
	{
		Category: domain.CategoryKnitwear,
		Keywords: []string{
			"sweater", "sweaters", "knit", "cardigan", "hoodie", "hoodies",
			"sweatshirt", "pullover", "jumper", "crewneck", "turtleneck",
		},
	},
	{
		Category: domain.CategoryOuterwear,
		Keywords: []string{
			"jacket", "jackets", "coat", "coats", "parka", "puffer",
			"windbreaker", "blazer", "anorak", "overcoat", "trench coat",
			"vest",
		},
	},
	{
		Category: domain.CategoryDresses,
		Keywords: []string{
			"dress", "dresses", "gown", "sundress", "midi dress",
			"maxi dress", "slip dress", "jumpsuit", "romper",
		},
	},
	{
		Category: domain.CategoryFootwear,
		Keywords: []string{
			"shoe", "shoes", "sneaker", "sneakers", "boot", "boots",
			"sandal", "sandals", "loafer", "loafers", "trainer", "heels",
			"slipper",
		},
	},
	{
		Category: domain.CategoryActivewear,
		Keywords: []string{
			"sports bra", "gym", "running short", "training", "workout",
			"athletic", "performance", "yoga", "compression", "track pant",
		},
	},
	{
		Category: domain.CategorySwimwear,
		Keywords: []string{
			"swim", "swimsuit", "swimwear", "bikini", "boardshort",
			"boardshorts", "swim trunk", "swim trunks", "rashguard",
		},
	},
	{
		Category: domain.CategoryAccessories,
		Keywords: []string{
			"hat", "cap", "beanie", "belt", "scarf", "bag", "backpack",
			"tote", "wallet", "sunglasses", "sock", "socks", "glove",
			"gloves", "watch", "jewelry", "necklace",
		},
	},
}

// Closed attribute vocabularies; intersection with normalizedTerms yields
// the attribute token sets.
var (
	materialVocab = vocab(
		"cotton", "denim", "wool", "merino", "linen", "leather", "silk",
		"cashmere", "polyester", "nylon", "suede", "canvas", "fleece",
		"down", "spandex", "elastane", "modal", "bamboo", "corduroy",
		"twill", "jersey", "organic", "recycled",
	)

	fitVocab = vocab(
		"slim", "skinny", "relaxed", "regular", "loose", "oversized",
		"tapered", "straight", "cropped", "fitted", "baggy", "boxy",
		"stretch", "tailored", "petite", "tall",
	)

	colorVocab = vocab(
		"black", "white", "blue", "navy", "red", "green", "olive", "grey",
		"gray", "beige", "tan", "brown", "pink", "purple", "yellow",
		"orange", "cream", "khaki", "indigo", "charcoal", "burgundy",
		"ivory", "teal",
	)

	styleVocab = vocab(
		"casual", "formal", "vintage", "classic", "modern", "minimal",
		"streetwear", "preppy", "bohemian", "retro", "sporty", "elegant",
		"rugged", "graphic", "utility", "western",
	)

	useCaseVocab = vocab(
		"running", "hiking", "travel", "work", "office", "gym", "beach",
		"outdoor", "lounge", "sleep", "everyday", "party", "wedding",
		"winter", "summer", "commute", "rain",
	)
)

func vocab(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// termAliases is the lightweight synonym expansion used when deriving
// tags from structured fields.
var termAliases = map[string][]string{
	"tee":        {"tshirt", "shirt"},
	"tshirt":     {"tee", "shirt"},
	"jumper":     {"sweater"},
	"pullover":   {"sweater"},
	"sneaker":    {"shoes"},
	"sneakers":   {"shoes"},
	"trainers":   {"sneakers", "shoes"},
	"trouser":    {"pants"},
	"trousers":   {"pants"},
	"chino":      {"pants"},
	"chinos":     {"pants"},
	"jean":       {"denim"},
	"jeans":      {"denim"},
	"denim":      {"jeans"},
	"jogger":     {"pants"},
	"joggers":    {"pants"},
	"hoody":      {"hoodie"},
	"crewneck":   {"sweatshirt"},
	"outerwear":  {"jacket"},
	"windbreak":  {"windbreaker"},
	"eco":        {"organic"},
	"sustainable": {"organic", "recycled"},
	"boxers":     {"boxer"},
	"underpants": {"underwear"},
	"swimming":   {"swim"},
	"athleisure": {"athletic"},
}
