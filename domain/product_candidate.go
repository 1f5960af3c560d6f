package domain

import (
	"strings"
	"time"
)

// ProductImage is a single catalog image reference.
type ProductImage struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
}

// ProductCandidate is a raw catalog record as supplied by the storefront API.
// Treated as read-only input everywhere past the ingestion boundary.
type ProductCandidate struct {
	ID               string         `json:"id"`
	Handle           string         `json:"handle"`
	Title            string         `json:"title"`
	Vendor           string         `json:"vendor"`
	ProductType      string         `json:"product_type"`
	Tags             []string       `json:"tags"`
	CreatedAt        time.Time      `json:"created_at"`
	AvailableForSale bool           `json:"available_for_sale"`
	Description      string         `json:"description"`
	DescriptionHTML  string         `json:"description_html"`
	Images           []ProductImage `json:"images"`
}

// NormalizeHandle trims and lowercases a product handle so it can be used
// as a stable map key.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}

// Key returns the cache/tracking key for the candidate: the normalized
// handle, falling back to the raw id when the handle is empty.
func (p ProductCandidate) Key() string {
	if h := NormalizeHandle(p.Handle); h != "" {
		return h
	}
	return p.ID
}

// NormalizeCandidate coerces a loosely-typed catalog payload into a
// ProductCandidate once, so internal components can assume non-null
// defaults instead of re-checking optionality throughout.
func NormalizeCandidate(raw map[string]any) ProductCandidate {
	var p ProductCandidate

	p.ID = coerceString(raw["id"])
	p.Handle = NormalizeHandle(coerceString(raw["handle"]))
	p.Title = strings.TrimSpace(coerceString(raw["title"]))
	p.Vendor = strings.TrimSpace(coerceString(raw["vendor"]))
	p.ProductType = strings.TrimSpace(coerceString(raw["product_type"], raw["productType"]))
	p.Description = coerceString(raw["description"])
	p.DescriptionHTML = coerceString(raw["description_html"], raw["descriptionHtml"])
	p.AvailableForSale = coerceBool(raw["available_for_sale"], raw["availableForSale"])

	switch tags := raw["tags"].(type) {
	case []any:
		for _, t := range tags {
			if s := strings.TrimSpace(coerceString(t)); s != "" {
				p.Tags = append(p.Tags, s)
			}
		}
	case string:
		// REST payloads flatten tags into a comma-separated string
		for _, t := range strings.Split(tags, ",") {
			if s := strings.TrimSpace(t); s != "" {
				p.Tags = append(p.Tags, s)
			}
		}
	}

	if images, ok := raw["images"].([]any); ok {
		for _, img := range images {
			m, ok := img.(map[string]any)
			if !ok {
				continue
			}
			p.Images = append(p.Images, ProductImage{
				URL:     coerceString(m["url"], m["src"]),
				AltText: coerceString(m["alt_text"], m["altText"], m["alt"]),
			})
		}
	}

	if ts := coerceString(raw["created_at"], raw["createdAt"]); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			p.CreatedAt = t
		}
	}

	return p
}

func coerceString(vals ...any) string {
	for _, v := range vals {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func coerceBool(vals ...any) bool {
	for _, v := range vals {
		if b, ok := v.(bool); ok {
			return b
		}
		if s, ok := v.(string); ok {
			return s == "true"
		}
	}
	return false
}
