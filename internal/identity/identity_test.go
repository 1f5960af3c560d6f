//go:build !integration

package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestResolve_ValidToken(t *testing.T) {
	r := NewResolver(testSecret)
	token := signedToken(t, Claims{
		CustomerKey: "cust-42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	id := r.Resolve("Bearer " + token)
	if id.Anonymous {
		t.Fatal("valid token resolved as anonymous")
	}
	if id.Key != "cust-42" {
		t.Fatalf("key = %q", id.Key)
	}
}

func TestResolve_SubjectFallback(t *testing.T) {
	r := NewResolver(testSecret)
	token := signedToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "cust-7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	id := r.Resolve("Bearer " + token)
	if id.Key != "cust-7" || id.Anonymous {
		t.Fatalf("identity = %+v", id)
	}
}

func TestResolve_MissingTokenIsAnonymous(t *testing.T) {
	r := NewResolver(testSecret)

	id := r.Resolve("")
	if !id.Anonymous {
		t.Fatal("expected anonymous identity")
	}
	if !strings.HasPrefix(id.Key, "anon-") {
		t.Fatalf("key = %q", id.Key)
	}

	// the anonymous key is stable within one resolver
	if again := r.Resolve(""); again.Key != id.Key {
		t.Fatal("anonymous key changed between calls")
	}
}

func TestResolve_BadSignatureIsAnonymous(t *testing.T) {
	r := NewResolver(testSecret)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{CustomerKey: "cust-1"}).
		SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if id := r.Resolve("Bearer " + token); !id.Anonymous {
		t.Fatal("forged token resolved as a real customer")
	}
}

func TestResolve_ExpiredTokenIsAnonymous(t *testing.T) {
	r := NewResolver(testSecret)
	token := signedToken(t, Claims{
		CustomerKey: "cust-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	if id := r.Resolve("Bearer " + token); !id.Anonymous {
		t.Fatal("expired token resolved as a real customer")
	}
}

func TestResolve_CachesVerifiedTokens(t *testing.T) {
	r := NewResolver(testSecret)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }

	token := signedToken(t, Claims{
		CustomerKey: "cust-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	r.Resolve("Bearer " + token)
	if len(r.cache) != 1 {
		t.Fatalf("cache size = %d, want 1", len(r.cache))
	}

	// past the TTL the entry is evicted on the next resolve
	base = base.Add(2 * cacheTTL)
	r.Resolve("Bearer " + token)
	if len(r.cache) != 1 {
		t.Fatalf("cache size = %d after refresh, want 1", len(r.cache))
	}
	for _, e := range r.cache {
		if !e.expiresAt.Equal(base.Add(cacheTTL)) {
			t.Fatalf("entry not refreshed: %v", e.expiresAt)
		}
	}
}
