package intel

const (
	defaultCacheSize          = 800
	defaultMinCategoryScore   = 2.0
	defaultMinConfidence      = 0.34
	defaultDenimBias          = 1.4
	defaultUnderwearBias      = 1.2
	defaultSuppressionPenalty = 0.8
	defaultMaxNormalizedTerms = 64
	defaultMaxAttributeTokens = 12

	// term-source weights
	weightTitle          = 4.0
	weightProductType    = 3.5
	weightDerivedTags    = 3.0
	weightContentSignals = 2.2
	weightHandle         = 2.0
	weightImageFilename  = 2.0
	weightVendor         = 0.8

	// keyword match scores
	scoreSingleWord = 2.0
	scorePluralOnly = 1.6
	scorePhrase     = 2.6
)

type Config struct {
	CacheSize          int
	MinCategoryScore   float64
	MinConfidence      float64
	DenimBias          float64
	UnderwearBias      float64
	SuppressionPenalty float64
	MaxNormalizedTerms int
	MaxAttributeTokens int
}

func DefaultConfig() Config {
	return Config{
		CacheSize:          defaultCacheSize,
		MinCategoryScore:   defaultMinCategoryScore,
		MinConfidence:      defaultMinConfidence,
		DenimBias:          defaultDenimBias,
		UnderwearBias:      defaultUnderwearBias,
		SuppressionPenalty: defaultSuppressionPenalty,
		MaxNormalizedTerms: defaultMaxNormalizedTerms,
		MaxAttributeTokens: defaultMaxAttributeTokens,
	}
}
