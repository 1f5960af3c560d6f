//go:build !integration

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFindByHandle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/slim-jeans.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"product":{"handle":" Slim-Jeans ","title":"Slim Jeans","product_type":"Jeans","tags":"denim, blue"}}`))
	}))
	defer srv.Close()

	repo := NewRepository(Config{BaseURL: srv.URL})
	p, err := repo.FindByHandle(context.Background(), "slim-jeans")
	if err != nil {
		t.Fatal(err)
	}
	if p.Handle != "slim-jeans" {
		t.Fatalf("handle = %q, want normalized", p.Handle)
	}
	if p.ProductType != "Jeans" {
		t.Fatalf("product type = %q", p.ProductType)
	}
}

func TestFindByHandle_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	repo := NewRepository(Config{BaseURL: srv.URL})
	if _, err := repo.FindByHandle(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for missing product")
	}
}

func TestFindSimilar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("handle"); got != "slim-jeans" {
			t.Errorf("handle query = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "6" {
			t.Errorf("limit query = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"handle":"a","title":"A"},{"handle":"b","title":"B"},{"title":"no handle"}]}`))
	}))
	defer srv.Close()

	repo := NewRepository(Config{BaseURL: srv.URL})
	out, err := repo.FindSimilar(context.Background(), "slim-jeans", 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	if out[0].Handle != "a" || out[1].Handle != "b" {
		t.Fatalf("unexpected handles: %+v", out)
	}
}

func TestFindSimilar_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	repo := NewRepository(Config{BaseURL: srv.URL})
	if _, err := repo.FindSimilar(context.Background(), "slim-jeans", 6); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestCancelledContext(t *testing.T) {
	repo := NewRepository(Config{BaseURL: "http://127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.FindByHandle(ctx, "slim-jeans"); err == nil {
		t.Fatal("expected context error")
	}
}
