package main

import (
	"context"
	"fmt"
	"sync"

	"myShopFeed/business/affinity"
	"myShopFeed/business/feed"
	"myShopFeed/business/intel"
	"myShopFeed/business/profile"
	"myShopFeed/domain"
	"myShopFeed/internal/repository/tiered"
	"myShopFeed/internal/rest"
	"myShopFeed/pkg/config"
)

// feedSessions lazily builds one feed service per customer key. The
// classifier, catalog client and storage tiers are shared; tracker and
// profile state is customer-scoped.
type feedSessions struct {
	cfg        *config.Config
	catalog    feed.CatalogRepository
	classifier *intel.Classifier
	store      *tiered.Store
	eventLog   feed.EventLogRepository
	sink       *feed.MemorySink

	mu       sync.Mutex
	sessions map[string]*customerSession
}

type customerSession struct {
	tracker *affinity.Tracker
	holder  *profile.Holder
	service *feed.Service
}

func newFeedSessions(
	cfg *config.Config,
	catalog feed.CatalogRepository,
	classifier *intel.Classifier,
	store *tiered.Store,
	eventLog feed.EventLogRepository,
	sink *feed.MemorySink,
) *feedSessions {
	return &feedSessions{
		cfg:        cfg,
		catalog:    catalog,
		classifier: classifier,
		store:      store,
		eventLog:   eventLog,
		sink:       sink,
		sessions:   make(map[string]*customerSession),
	}
}

func affinityKey(customerKey string) string {
	return fmt.Sprintf("affinity:%s", customerKey)
}

func profileKey(customerKey string) string {
	return fmt.Sprintf("profile:%s", customerKey)
}

func (s *feedSessions) sessionFor(customerKey string) *customerSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[customerKey]; ok {
		return sess
	}

	trackerCfg := affinity.DefaultConfig()
	trackerCfg.HalfLifeHours = s.cfg.Feed.HalfLifeHours
	trackerCfg.MaxTrackedProducts = s.cfg.Feed.MaxTrackedProducts

	tracker := affinity.NewTracker(trackerCfg, s.store, affinityKey(customerKey))
	tracker.Load(context.Background())

	holder := profile.NewHolder(s.store, profileKey(customerKey))
	holder.Load(context.Background())

	feedCfg := feed.DefaultConfig()
	feedCfg.PageSize = s.cfg.Feed.PageSize
	feedCfg.ExplorationRatio = s.cfg.Feed.ExplorationRatio
	feedCfg.CategoryPenalty = s.cfg.Feed.CategoryPenalty

	sess := &customerSession{
		tracker: tracker,
		holder:  holder,
		service: feed.NewService(s.catalog, s.classifier, tracker, holder, s.eventLog, s.sink, customerKey, feedCfg),
	}
	s.sessions[customerKey] = sess
	return sess
}

// ---- rest.FeedSessions ----

func (s *feedSessions) ServiceFor(customerKey string) rest.FeedService {
	return serviceAdapter{service: s.sessionFor(customerKey).service}
}

// serviceAdapter maps the transport-level page params onto the business
// request type.
type serviceAdapter struct {
	service *feed.Service
}

func (a serviceAdapter) BuildPage(ctx context.Context, req rest.PageParams) (domain.FeedPage, error) {
	return a.service.BuildPage(ctx, feed.PageRequest{
		SeedHandle:   req.SeedHandle,
		PageDepth:    req.PageDepth,
		PageSize:     req.PageSize,
		Seed:         req.Seed,
		IncludeDebug: req.IncludeDebug,
	})
}

func (a serviceAdapter) RecordView(ctx context.Context, handle string) {
	a.service.RecordView(ctx, handle)
}

func (a serviceAdapter) RecordAddToCart(ctx context.Context, handle string) {
	a.service.RecordAddToCart(ctx, handle)
}

func (a serviceAdapter) ApplyProfileEvent(ctx context.Context, ev domain.ProfileEvent) {
	a.service.ApplyProfileEvent(ctx, ev)
}

func (a serviceAdapter) DeclarePreference(ctx context.Context, prefersEco bool) {
	a.service.DeclarePreference(ctx, prefersEco)
}

// ---- rest.FeedInspector ----

func (s *feedSessions) RecentSnapshots(n int) []domain.DebugSnapshot {
	return s.sink.Recent(n)
}

func (s *feedSessions) ProfileSummary(customerKey string) domain.ProfileSummary {
	sess := s.sessionFor(customerKey)
	return profile.Summary(sess.holder.Current(), 10)
}

func (s *feedSessions) ClassifyByHandle(ctx context.Context, handle string) (*domain.ProductIntelligence, error) {
	product, err := s.catalog.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.classifier.Classify(product), nil
}

func (s *feedSessions) ResetState(ctx context.Context, customerKey string) error {
	if err := s.store.Reset(ctx, affinityKey(customerKey)); err != nil {
		return err
	}
	if err := s.store.Reset(ctx, profileKey(customerKey)); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, customerKey)
	s.mu.Unlock()

	return nil
}
