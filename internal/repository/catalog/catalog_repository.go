package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"myShopFeed/domain"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Repository fetches catalog records over the storefront JSON API. The
// upstream payload shape is not trusted: every record goes through
// domain.NormalizeCandidate before anything else sees it.
type Repository struct {
	cfg    Config
	client *http.Client
}

func NewRepository(cfg Config) *Repository {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Repository{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (r *Repository) FindByHandle(ctx context.Context, handle string) (domain.ProductCandidate, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProductCandidate{}, fmt.Errorf("context error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/products/%s.json", r.cfg.BaseURL, url.PathEscape(handle))

	var payload struct {
		Product map[string]any `json:"product"`
	}
	if err := r.getJSON(ctx, endpoint, &payload); err != nil {
		return domain.ProductCandidate{}, err
	}
	if payload.Product == nil {
		return domain.ProductCandidate{}, fmt.Errorf("product %q not found", handle)
	}

	return domain.NormalizeCandidate(payload.Product), nil
}

func (r *Repository) FindSimilar(ctx context.Context, seedHandle string, limit int) ([]domain.ProductCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/recommendations/products.json?handle=%s&limit=%s",
		r.cfg.BaseURL, url.QueryEscape(seedHandle), strconv.Itoa(limit))

	var payload struct {
		Products []map[string]any `json:"products"`
	}
	if err := r.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	out := make([]domain.ProductCandidate, 0, len(payload.Products))
	for _, raw := range payload.Products {
		out = append(out, domain.NormalizeCandidate(raw))
	}

	return out, nil
}

func (r *Repository) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call catalog: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read catalog response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d: %s", res.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal catalog response: %w", err)
	}

	return nil
}
