package profile

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"myShopFeed/domain"
	"myShopFeed/pkg/logger"
)

const persistTimeout = 5 * time.Second

// Storage is the persistence collaborator for profiles.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Holder owns the live InterestProfile for one identity. It is the
// single-writer wrapper around the pure functions in this package:
// mutation happens here, persistence is fire-and-forget.
type Holder struct {
	store      Storage
	storageKey string
	now        func() time.Time

	mu      sync.Mutex
	current domain.InterestProfile
}

func NewHolder(store Storage, storageKey string) *Holder {
	h := &Holder{
		store:      store,
		storageKey: storageKey,
		now:        time.Now,
	}
	h.current = CreateEmpty(h.now().UnixMilli())
	return h
}

// Load restores the profile from storage, coercing whatever shape is
// found. Failures cold-start an empty profile.
func (h *Holder) Load(ctx context.Context) {
	if h.store == nil {
		return
	}

	data, err := h.store.Read(ctx, h.storageKey)
	if err != nil {
		logger.Warn("profile_load_failed", "key", h.storageKey, "error", err)
		return
	}
	if len(data) == 0 {
		return
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("profile_snapshot_unreadable", "key", h.storageKey, "error", err)
		return
	}

	restored := Normalize(raw, h.now().UnixMilli())

	h.mu.Lock()
	h.current = restored
	h.mu.Unlock()
}

// Current returns a copy of the live profile.
func (h *Holder) Current() domain.InterestProfile {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clone(h.current)
}

// Apply folds an event into the profile and schedules persistence.
func (h *Holder) Apply(ev domain.ProfileEvent) domain.InterestProfile {
	if ev.OccurredAt == 0 {
		ev.OccurredAt = h.now().UnixMilli()
	}

	h.mu.Lock()
	h.current = ApplyEvent(h.current, ev)
	updated := clone(h.current)
	h.mu.Unlock()

	h.persist(updated)
	return updated
}

// DeclarePreference records the explicit eco preference and persists.
func (h *Holder) DeclarePreference(prefersEco bool) {
	h.mu.Lock()
	h.current = SetDeclaredPreference(h.current, prefersEco)
	updated := clone(h.current)
	h.mu.Unlock()

	h.persist(updated)
}

// Reset drops all accumulated signal.
func (h *Holder) Reset() {
	h.mu.Lock()
	h.current = CreateEmpty(h.now().UnixMilli())
	updated := clone(h.current)
	h.mu.Unlock()

	h.persist(updated)
}

func (h *Holder) persist(p domain.InterestProfile) {
	if h.store == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		logger.Error("profile_snapshot_marshal_failed", "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := h.store.Write(ctx, h.storageKey, data); err != nil {
			logger.Warn("profile_persist_failed", "key", h.storageKey, "error", err)
		}
	}()
}
