//go:build !integration

package affinity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"myShopFeed/domain"
)

type fakeStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	readErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (s *fakeStore) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.data[key], nil
}

func (s *fakeStore) Write(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRecordViewThenAddToCart(t *testing.T) {
	tr := NewTracker(DefaultConfig(), nil, "k")
	ctx := context.Background()

	tr.RecordView(ctx, "blue-denim-jeans")
	tr.RecordAddToCart(ctx, "blue-denim-jeans")

	rec, ok := tr.Get("blue-denim-jeans")
	if !ok {
		t.Fatal("expected record")
	}
	if rec.RawScore != 5 {
		t.Errorf("raw score = %f, want 5", rec.RawScore)
	}
	if rec.ViewCount != 1 || rec.AddToCartCount != 1 {
		t.Errorf("counts = %d views / %d carts, want 1/1", rec.ViewCount, rec.AddToCartCount)
	}
	if rec.FirstInteractionAt == 0 || rec.LastInteractionAt == 0 {
		t.Errorf("timestamps not set: %+v", rec)
	}
}

func TestHandleNormalization(t *testing.T) {
	tr := NewTracker(DefaultConfig(), nil, "k")

	tr.RecordView(context.Background(), "  Blue-Denim-Jeans ")
	if _, ok := tr.Get("blue-denim-jeans"); !ok {
		t.Fatal("expected handle to be trimmed and lowercased")
	}
	if tr.Size() != 1 {
		t.Fatalf("size = %d, want 1", tr.Size())
	}
}

func TestWeightedScore_DecayMonotonicity(t *testing.T) {
	tr := NewTracker(DefaultConfig(), nil, "k")

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := domain.ProductAffinity{RawScore: 10, LastInteractionAt: base.UnixMilli()}

	prev := tr.WeightedScore(rec, base.UnixMilli())
	for _, elapsed := range []time.Duration{time.Hour, 7 * time.Hour, 25 * time.Hour, 72 * time.Hour, 200 * time.Hour} {
		got := tr.WeightedScore(rec, base.Add(elapsed).UnixMilli())
		if got >= prev {
			t.Errorf("weighted score did not decay at %v: %f >= %f", elapsed, got, prev)
		}
		prev = got
	}
}

func TestWeightedScore_HalfLife(t *testing.T) {
	tr := NewTracker(DefaultConfig(), nil, "k")

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rec := domain.ProductAffinity{RawScore: 8, LastInteractionAt: base.UnixMilli()}

	// beyond 24h no recency boost applies, so 72h later the score halves
	got := tr.WeightedScore(rec, base.Add(72*time.Hour).UnixMilli())
	if diff := got - 4.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("score after one half-life = %f, want 4", got)
	}
}

func TestWeightedProducts_Ordering(t *testing.T) {
	tr := NewTracker(DefaultConfig(), nil, "k")
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tr.now = fixedClock(now)

	ctx := context.Background()
	tr.RecordView(ctx, "low")
	tr.RecordAddToCart(ctx, "high")
	tr.RecordView(ctx, "mid")
	tr.RecordView(ctx, "mid")

	products := tr.WeightedProducts()
	if len(products) != 3 {
		t.Fatalf("len = %d, want 3", len(products))
	}
	if products[0].Handle != "high" || products[1].Handle != "mid" || products[2].Handle != "low" {
		t.Fatalf("order = %v", []string{products[0].Handle, products[1].Handle, products[2].Handle})
	}
}

func TestWeightedProducts_TieBreaksOnHandle(t *testing.T) {
	tr := NewTracker(DefaultConfig(), nil, "k")
	tr.now = fixedClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	ctx := context.Background()
	tr.RecordView(ctx, "bbb")
	tr.RecordView(ctx, "aaa")

	products := tr.WeightedProducts()
	if products[0].Handle != "aaa" {
		t.Fatalf("expected lexical tie-break, got %q first", products[0].Handle)
	}
}

func TestPrune_CapsTrackedSet(t *testing.T) {
	cfg := DefaultConfig()
	tr := NewTracker(cfg, nil, "k")
	tr.now = fixedClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	ctx := context.Background()
	for i := 0; i < 250; i++ {
		tr.RecordView(ctx, fmt.Sprintf("product-%03d", i))
	}

	tr.Prune()
	if tr.Size() > 200 {
		t.Fatalf("size after prune = %d, want <= 200", tr.Size())
	}
}

func TestPrune_IdempotentWithinBounds(t *testing.T) {
	tr := NewTracker(DefaultConfig(), nil, "k")
	ctx := context.Background()
	tr.RecordView(ctx, "a")
	tr.RecordView(ctx, "b")

	tr.Prune()
	tr.Prune()
	if tr.Size() != 2 {
		t.Fatalf("size = %d, want 2", tr.Size())
	}
}

func TestNormalizeStored_CoercesMalformedRecords(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC).UnixMilli()

	data := []byte(`{
		"Good-Handle ": {"raw_score": 3, "view_count": 2, "first_interaction_at": 100, "last_interaction_at": 200},
		"broken": {"raw_score": "oops", "view_count": null},
		"": {"raw_score": 1}
	}`)

	entries := NormalizeStored(data, now)
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2 (empty handle dropped)", len(entries))
	}

	good := entries["good-handle"]
	if good == nil || good.RawScore != 3 || good.ViewCount != 2 {
		t.Fatalf("good record = %+v", good)
	}

	broken := entries["broken"]
	if broken == nil {
		t.Fatal("malformed record should be coerced, not dropped")
	}
	if broken.RawScore != 0 || broken.ViewCount != 0 {
		t.Errorf("broken record not defaulted: %+v", broken)
	}
	if broken.LastInteractionAt != now {
		t.Errorf("expected fallback timestamp, got %d", broken.LastInteractionAt)
	}
}

func TestNormalizeStored_GarbageSnapshot(t *testing.T) {
	entries := NormalizeStored([]byte(`not json at all`), 1)
	if len(entries) != 0 {
		t.Fatalf("expected empty map, got %v", entries)
	}
}

func TestLoad_FailureIsColdStart(t *testing.T) {
	store := newFakeStore()
	store.readErr = errors.New("boom")

	tr := NewTracker(DefaultConfig(), store, "k")
	tr.Load(context.Background())

	if tr.Size() != 0 {
		t.Fatalf("expected cold start, size = %d", tr.Size())
	}

	// tracker stays fully functional
	tr.RecordView(context.Background(), "a")
	if tr.Size() != 1 {
		t.Fatal("tracker unusable after failed load")
	}
}

func TestWriteThroughPersistence(t *testing.T) {
	store := newFakeStore()
	tr := NewTracker(DefaultConfig(), store, "affinity:test")

	tr.RecordView(context.Background(), "persisted-product")

	// write is async; poll briefly
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		store.mu.Lock()
		data := store.data["affinity:test"]
		store.mu.Unlock()
		if len(data) > 0 {
			entries := NormalizeStored(data, time.Now().UnixMilli())
			if entries["persisted-product"] == nil {
				t.Fatalf("snapshot missing record: %s", data)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("snapshot never written")
}
