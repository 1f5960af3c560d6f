package feed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"

	"myShopFeed/business/profile"
	"myShopFeed/domain"
	"myShopFeed/pkg/logger"
	"myShopFeed/pkg/metrics"
)

const (
	defaultCandidateMultiplier = 3
	defaultDebugTopN           = 10
	eventLogTimeout            = 5 * time.Second
)

// ---- service config ----

type Config struct {
	PageSize            int
	ExplorationRatio    float64
	CategoryPenalty     float64
	CandidateMultiplier int
	DebugTopN           int
}

func DefaultConfig() Config {
	return Config{
		PageSize:            defaultPageSize,
		ExplorationRatio:    defaultExplorationRatio,
		CategoryPenalty:     defaultCategoryPenalty,
		CandidateMultiplier: defaultCandidateMultiplier,
		DebugTopN:           defaultDebugTopN,
	}
}

// ---- collaborator interfaces ----

// CatalogRepository supplies raw candidates; the core makes no
// assumptions about transport or freshness.
type CatalogRepository interface {
	FindByHandle(ctx context.Context, handle string) (domain.ProductCandidate, error)
	FindSimilar(ctx context.Context, seedHandle string, limit int) ([]domain.ProductCandidate, error)
}

// IntelligenceProvider classifies catalog records.
type IntelligenceProvider interface {
	Classify(p domain.ProductCandidate) *domain.ProductIntelligence
}

// InteractionTracker is the affinity tracker surface the feed needs.
type InteractionTracker interface {
	RecordView(ctx context.Context, handle string)
	RecordAddToCart(ctx context.Context, handle string)
	WeightedProducts() []domain.WeightedProduct
}

// ProfileHolder is the interest-profile surface the feed needs.
type ProfileHolder interface {
	Current() domain.InterestProfile
	Apply(ev domain.ProfileEvent) domain.InterestProfile
	DeclarePreference(prefersEco bool)
}

// EventLogRepository persists raw interaction events for offline
// analysis. Optional; writes are fire-and-forget.
type EventLogRepository interface {
	SaveEvent(ctx context.Context, event domain.InteractionEvent) error
}

// ---- Usecase / Service ----

// Service is the composition root of the personalization core: it wires
// the classifier, tracker and profile into ranked, explorable feed pages.
type Service struct {
	catalogRepo CatalogRepository
	classifier  IntelligenceProvider
	tracker     InteractionTracker
	profiles    ProfileHolder
	eventLog    EventLogRepository
	sink        DebugSink
	customerKey string
	cfg         Config
}

func NewService(
	catalogRepo CatalogRepository,
	classifier IntelligenceProvider,
	tracker InteractionTracker,
	profiles ProfileHolder,
	eventLog EventLogRepository,
	sink DebugSink,
	customerKey string,
	cfg Config,
) *Service {
	if sink == nil {
		sink = NoopSink{}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.CandidateMultiplier <= 0 {
		cfg.CandidateMultiplier = defaultCandidateMultiplier
	}
	if cfg.DebugTopN <= 0 {
		cfg.DebugTopN = defaultDebugTopN
	}
	return &Service{
		catalogRepo: catalogRepo,
		classifier:  classifier,
		tracker:     tracker,
		profiles:    profiles,
		eventLog:    eventLog,
		sink:        sink,
		customerKey: customerKey,
		cfg:         cfg,
	}
}

// PageRequest describes one feed page to build.
type PageRequest struct {
	SeedHandle   string
	PageDepth    int
	PageSize     int
	Seed         string
	IncludeDebug bool
}

// BuildPage produces one ranked, explorable feed page for a seed product.
// Storage problems degrade to a less-personalized page; only a failing
// catalog is an error.
func (s *Service) BuildPage(ctx context.Context, req PageRequest) (domain.FeedPage, error) {
	if err := ctx.Err(); err != nil {
		return domain.FeedPage{}, fmt.Errorf("context error: %w", err)
	}

	started := time.Now()

	seedHandle := domain.NormalizeHandle(req.SeedHandle)
	if seedHandle == "" {
		return domain.FeedPage{}, fmt.Errorf("seed handle is required")
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = s.cfg.PageSize
	}
	pageSeed := req.Seed
	if pageSeed == "" {
		pageSeed = seedHandle + "|" + strconv.Itoa(req.PageDepth)
	}

	seedProduct, err := s.catalogRepo.FindByHandle(ctx, seedHandle)
	if err != nil {
		return domain.FeedPage{}, fmt.Errorf("failed to load seed product: %w", err)
	}
	seedIntel := s.classifier.Classify(seedProduct)

	candidates, err := s.catalogRepo.FindSimilar(ctx, seedHandle, pageSize*s.cfg.CandidateMultiplier)
	if err != nil {
		return domain.FeedPage{}, fmt.Errorf("failed to load candidates: %w", err)
	}

	candidates, preRankDupes := DedupeCandidates(candidates)

	classified := make([]Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Key() == seedHandle {
			continue
		}
		classified = append(classified, Candidate{
			Product: cand,
			Intel:   *s.classifier.Classify(cand),
		})
	}
	feedCandidatesRanked.Add(float64(len(classified)))

	prof := s.currentProfile()
	affinities := s.affinityWeights()

	ranked := RankCandidates(*seedIntel, classified, prof, RankOptions{
		IncludeDebug:    req.IncludeDebug,
		CategoryPenalty: s.cfg.CategoryPenalty,
		AffinityWeights: affinities,
	})

	page := SelectPage(ranked, pageSize, PageOptions{
		PageDepth:        req.PageDepth,
		ExplorationRatio: s.cfg.ExplorationRatio,
		Seed:             pageSeed,
	})
	page.DuplicatesRemoved += preRankDupes

	metrics.FeedPagesTotal.Inc()
	metrics.FeedPageLatency.Observe(time.Since(started).Seconds())
	feedExplorePicksTotal.Add(float64(page.ExploreCount))

	logger.Debug("feed_page_built",
		"seed", seedHandle,
		"seed_category", seedIntel.PrimaryCategory,
		"page_depth", req.PageDepth,
		"candidates", len(classified),
		"items", len(page.Items),
		"explore", page.ExploreCount,
		"dupes_removed", page.DuplicatesRemoved,
	)

	s.emitSnapshot(seedHandle, seedIntel, ranked, prof, req.PageDepth)

	return page, nil
}

func (s *Service) currentProfile() domain.InterestProfile {
	if s.profiles == nil {
		return domain.InterestProfile{}
	}
	return s.profiles.Current()
}

func (s *Service) affinityWeights() map[string]float64 {
	if s.tracker == nil {
		return nil
	}
	products := s.tracker.WeightedProducts()
	if len(products) == 0 {
		return nil
	}
	out := make(map[string]float64, len(products))
	for _, p := range products {
		out[p.Handle] = p.WeightedScore
	}
	return out
}

// RecordView forwards a product view to the tracker and the event log.
func (s *Service) RecordView(ctx context.Context, handle string) {
	if s.tracker != nil {
		s.tracker.RecordView(ctx, handle)
	}
	s.logEvent(handle, domain.InteractionView)
}

// RecordAddToCart forwards an add-to-cart to the tracker and event log.
func (s *Service) RecordAddToCart(ctx context.Context, handle string) {
	if s.tracker != nil {
		s.tracker.RecordAddToCart(ctx, handle)
	}
	s.logEvent(handle, domain.InteractionAddToCart)
}

// ApplyProfileEvent folds a UI event into the interest profile.
func (s *Service) ApplyProfileEvent(ctx context.Context, ev domain.ProfileEvent) {
	if err := ctx.Err(); err != nil {
		return
	}
	if s.profiles == nil {
		return
	}
	s.profiles.Apply(ev)
}

// DeclarePreference records an explicit sustainability preference on the
// interest profile.
func (s *Service) DeclarePreference(ctx context.Context, prefersEco bool) {
	if err := ctx.Err(); err != nil {
		return
	}
	if s.profiles == nil {
		return
	}
	s.profiles.DeclarePreference(prefersEco)
}

// logEvent appends to the raw event log without blocking the caller.
func (s *Service) logEvent(handle, eventType string) {
	if s.eventLog == nil {
		return
	}

	event := domain.InteractionEvent{
		CustomerKey: s.customerKey,
		Handle:      domain.NormalizeHandle(handle),
		EventType:   eventType,
		Context: datatypes.JSONMap{
			"source": "feed",
		},
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), eventLogTimeout)
		defer cancel()

		if err := s.eventLog.SaveEvent(ctx, event); err != nil {
			logger.Warn("event_log_write_failed", "handle", event.Handle, "error", err)
		}
	}()
}

func (s *Service) emitSnapshot(seedHandle string, seedIntel *domain.ProductIntelligence, ranked []domain.RankedItem, prof domain.InterestProfile, pageDepth int) {
	topN := s.cfg.DebugTopN
	if topN <= 0 || topN > len(ranked) {
		topN = len(ranked)
	}

	top := make([]domain.RankedItem, topN)
	copy(top, ranked[:topN])

	s.sink.RecordSnapshot(domain.DebugSnapshot{
		SeedHandle:     seedHandle,
		SeedCategory:   seedIntel.PrimaryCategory,
		PageDepth:      pageDepth,
		TopItems:       top,
		ProfileSummary: profile.Summary(prof, s.cfg.DebugTopN),
		Samples:        []domain.ProductIntelligence{*seedIntel},
		GeneratedAt:    time.Now(),
	})
}
