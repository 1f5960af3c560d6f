package identity

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"myShopFeed/pkg/logger"
)

const cacheTTL = 60 * time.Second

// Claims is the token payload the feed cares about. CustomerKey scopes
// all persisted state.
type Claims struct {
	CustomerKey string `json:"customer_key"`
	jwt.RegisteredClaims
}

// Identity is a resolved caller.
type Identity struct {
	Key       string
	Anonymous bool
}

type cacheEntry struct {
	identity  Identity
	expiresAt time.Time
}

// Resolver maps bearer tokens to customer keys. Verified tokens are
// cached briefly so hot sessions do not pay the signature check on
// every request; anonymous callers get a random per-resolver key so
// their state never collides with a real customer's.
type Resolver struct {
	secret       []byte
	anonymousKey string

	mu    sync.Mutex
	cache map[string]cacheEntry
	now   func() time.Time
}

func NewResolver(secret string) *Resolver {
	return &Resolver{
		secret:       []byte(secret),
		anonymousKey: "anon-" + uuid.NewString(),
		cache:        make(map[string]cacheEntry),
		now:          time.Now,
	}
}

// Resolve returns the identity for a raw Authorization header value.
// Missing or invalid tokens degrade to the anonymous identity rather
// than failing: the feed still works, just unpersonalized across
// sessions.
func (r *Resolver) Resolve(authHeader string) Identity {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(authHeader), "Bearer"))
	if token == "" {
		return r.anonymous()
	}

	r.mu.Lock()
	if entry, ok := r.cache[token]; ok && r.now().Before(entry.expiresAt) {
		r.mu.Unlock()
		return entry.identity
	}
	r.mu.Unlock()

	id, err := r.verify(token)
	if err != nil {
		logger.Debug("token_rejected", "error", err)
		return r.anonymous()
	}

	r.mu.Lock()
	r.evictExpiredLocked()
	r.cache[token] = cacheEntry{identity: id, expiresAt: r.now().Add(cacheTTL)}
	r.mu.Unlock()

	return id
}

func (r *Resolver) verify(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return Identity{}, fmt.Errorf("token is not valid")
	}

	key := strings.TrimSpace(claims.CustomerKey)
	if key == "" {
		key = strings.TrimSpace(claims.Subject)
	}
	if key == "" {
		return Identity{}, fmt.Errorf("token carries no customer key")
	}

	return Identity{Key: key}, nil
}

func (r *Resolver) anonymous() Identity {
	return Identity{Key: r.anonymousKey, Anonymous: true}
}

func (r *Resolver) evictExpiredLocked() {
	now := r.now()
	for token, entry := range r.cache {
		if !now.Before(entry.expiresAt) {
			delete(r.cache, token)
		}
	}
}
