package affinity

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"sync"
	"time"

	"myShopFeed/domain"
	"myShopFeed/pkg/logger"
)

const (
	defaultHalfLifeHours      = 72.0
	defaultMaxTrackedProducts = 200
	defaultViewScore          = 1.0
	defaultAddToCartScore     = 4.0

	// short-term recency boosts on top of the exponential decay
	recencyBoostUnderSixHours = 1.25
	recencyBoostUnderOneDay   = 1.1

	persistTimeout = 5 * time.Second
)

type Config struct {
	HalfLifeHours      float64
	MaxTrackedProducts int
	ViewScore          float64
	AddToCartScore     float64
}

func DefaultConfig() Config {
	return Config{
		HalfLifeHours:      defaultHalfLifeHours,
		MaxTrackedProducts: defaultMaxTrackedProducts,
		ViewScore:          defaultViewScore,
		AddToCartScore:     defaultAddToCartScore,
	}
}

// Storage is the persistence collaborator. Writes are fire-and-forget;
// a failed write never reaches the caller.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Tracker is the per-session record of implicit interest per product
// handle. The in-memory map is the source of truth; every mutation is
// written through to storage in the background.
type Tracker struct {
	cfg        Config
	store      Storage
	storageKey string
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]*domain.ProductAffinity
}

func NewTracker(cfg Config, store Storage, storageKey string) *Tracker {
	if cfg.HalfLifeHours <= 0 {
		cfg.HalfLifeHours = defaultHalfLifeHours
	}
	if cfg.MaxTrackedProducts <= 0 {
		cfg.MaxTrackedProducts = defaultMaxTrackedProducts
	}
	return &Tracker{
		cfg:        cfg,
		store:      store,
		storageKey: storageKey,
		now:        time.Now,
		entries:    make(map[string]*domain.ProductAffinity),
	}
}

// Load restores tracked state from storage. Any failure is a cold start,
// logged and swallowed.
func (t *Tracker) Load(ctx context.Context) {
	if t.store == nil {
		return
	}

	data, err := t.store.Read(ctx, t.storageKey)
	if err != nil {
		logger.Warn("affinity_load_failed", "key", t.storageKey, "error", err)
		return
	}
	if len(data) == 0 {
		return
	}

	entries := NormalizeStored(data, t.now().UnixMilli())

	t.mu.Lock()
	t.entries = entries
	t.pruneLocked()
	t.mu.Unlock()
}

// NormalizeStored coerces a persisted snapshot, possibly in a legacy or
// corrupted shape, into safe affinity records. Malformed fields default
// to zero counts and the given fallback timestamp.
func NormalizeStored(data []byte, fallbackMillis int64) map[string]*domain.ProductAffinity {
	entries := make(map[string]*domain.ProductAffinity)

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("affinity_snapshot_unreadable", "error", err)
		return entries
	}

	for handle, fields := range raw {
		handle = domain.NormalizeHandle(handle)
		if handle == "" {
			continue
		}
		rec := &domain.ProductAffinity{
			RawScore:           coerceFloat(fields["raw_score"]),
			ViewCount:          int(coerceFloat(fields["view_count"])),
			AddToCartCount:     int(coerceFloat(fields["add_to_cart_count"])),
			FirstInteractionAt: int64(coerceFloat(fields["first_interaction_at"])),
			LastInteractionAt:  int64(coerceFloat(fields["last_interaction_at"])),
		}
		if rec.RawScore < 0 {
			rec.RawScore = 0
		}
		if rec.ViewCount < 0 {
			rec.ViewCount = 0
		}
		if rec.AddToCartCount < 0 {
			rec.AddToCartCount = 0
		}
		if rec.FirstInteractionAt <= 0 {
			rec.FirstInteractionAt = fallbackMillis
		}
		if rec.LastInteractionAt <= 0 {
			rec.LastInteractionAt = fallbackMillis
		}
		entries[handle] = rec
	}

	return entries
}

func coerceFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}

// RecordView adds a view interaction for a handle.
func (t *Tracker) RecordView(ctx context.Context, handle string) {
	t.record(ctx, handle, t.cfg.ViewScore, 1, 0)
}

// RecordAddToCart adds an add-to-cart interaction for a handle.
func (t *Tracker) RecordAddToCart(ctx context.Context, handle string) {
	t.record(ctx, handle, t.cfg.AddToCartScore, 0, 1)
}

func (t *Tracker) record(ctx context.Context, handle string, score float64, views, carts int) {
	handle = domain.NormalizeHandle(handle)
	if handle == "" {
		return
	}

	nowMillis := t.now().UnixMilli()

	t.mu.Lock()
	rec, ok := t.entries[handle]
	if !ok {
		rec = &domain.ProductAffinity{FirstInteractionAt: nowMillis}
		t.entries[handle] = rec
	}
	rec.RawScore += score
	rec.ViewCount += views
	rec.AddToCartCount += carts
	rec.LastInteractionAt = nowMillis
	if rec.FirstInteractionAt == 0 {
		rec.FirstInteractionAt = nowMillis
	}
	t.pruneLocked()
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.persist(snapshot)
}

// WeightedScore applies the exponential decay and short-term recency
// multiplier to a raw record.
func (t *Tracker) WeightedScore(rec domain.ProductAffinity, nowMillis int64) float64 {
	hours := float64(nowMillis-rec.LastInteractionAt) / float64(time.Hour.Milliseconds())
	if hours < 0 {
		hours = 0
	}

	decay := math.Pow(0.5, hours/t.cfg.HalfLifeHours)

	boost := 1.0
	switch {
	case hours < 6:
		boost = recencyBoostUnderSixHours
	case hours < 24:
		boost = recencyBoostUnderOneDay
	}

	return rec.RawScore * decay * boost
}

// WeightedProducts returns every tracked handle ordered by decayed score
// descending; ties break on most recent interaction, then handle, so the
// ordering is fully deterministic.
func (t *Tracker) WeightedProducts() []domain.WeightedProduct {
	nowMillis := t.now().UnixMilli()

	t.mu.Lock()
	out := make([]domain.WeightedProduct, 0, len(t.entries))
	for handle, rec := range t.entries {
		out = append(out, domain.WeightedProduct{
			Handle:        handle,
			WeightedScore: t.WeightedScore(*rec, nowMillis),
			Affinity:      *rec,
		})
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].WeightedScore != out[j].WeightedScore {
			return out[i].WeightedScore > out[j].WeightedScore
		}
		if out[i].Affinity.LastInteractionAt != out[j].Affinity.LastInteractionAt {
			return out[i].Affinity.LastInteractionAt > out[j].Affinity.LastInteractionAt
		}
		return out[i].Handle < out[j].Handle
	})

	return out
}

// Prune drops the lowest-weighted entries once the tracked set exceeds
// the configured maximum. No-op when already within bounds.
func (t *Tracker) Prune() {
	t.mu.Lock()
	t.pruneLocked()
	t.mu.Unlock()
}

func (t *Tracker) pruneLocked() {
	if len(t.entries) <= t.cfg.MaxTrackedProducts {
		return
	}

	nowMillis := t.now().UnixMilli()

	type weighted struct {
		handle string
		score  float64
		last   int64
	}
	infos := make([]weighted, 0, len(t.entries))
	for handle, rec := range t.entries {
		infos = append(infos, weighted{
			handle: handle,
			score:  t.WeightedScore(*rec, nowMillis),
			last:   rec.LastInteractionAt,
		})
	}

	// lowest weighted, oldest first
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].score != infos[j].score {
			return infos[i].score < infos[j].score
		}
		if infos[i].last != infos[j].last {
			return infos[i].last < infos[j].last
		}
		return infos[i].handle < infos[j].handle
	})

	toDrop := len(t.entries) - t.cfg.MaxTrackedProducts
	for i := 0; i < toDrop && i < len(infos); i++ {
		delete(t.entries, infos[i].handle)
	}
}

// Size reports how many handles are currently tracked.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Get returns a copy of the record for a handle.
func (t *Tracker) Get(handle string) (domain.ProductAffinity, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.entries[domain.NormalizeHandle(handle)]
	if !ok {
		return domain.ProductAffinity{}, false
	}
	return *rec, true
}

func (t *Tracker) snapshotLocked() []byte {
	data, err := json.Marshal(t.entries)
	if err != nil {
		logger.Error("affinity_snapshot_marshal_failed", "error", err)
		return nil
	}
	return data
}

// persist writes a snapshot in the background; the scoring path never
// waits on it.
func (t *Tracker) persist(snapshot []byte) {
	if t.store == nil || snapshot == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := t.store.Write(ctx, t.storageKey, snapshot); err != nil {
			logger.Warn("affinity_persist_failed", "key", t.storageKey, "error", err)
		}
	}()
}
