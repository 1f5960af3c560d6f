package domain

// ProfileSchemaVersion is bumped when the persisted profile shape changes;
// NormalizeProfile coerces older shapes forward.
const ProfileSchemaVersion = 2

// InterestProfile is a compact, prunable summary of user taste accumulated
// from discrete UI events. All mutation goes through pure functions in
// business/profile.
type InterestProfile struct {
	SchemaVersion   int                `json:"schema_version"`
	UpdatedAt       int64              `json:"updated_at"` // epoch millis
	CategoryWeights map[string]float64 `json:"category_weights"`
	TermWeights     map[string]float64 `json:"term_weights"`
	VendorWeights   map[string]float64 `json:"vendor_weights"`

	// Declared attribute: explicit preference for green-tagged products,
	// nil when the user never stated one.
	PrefersEco *bool `json:"prefers_eco,omitempty"`
}

// Profile event types emitted by the UI layer.
const (
	ProfileEventProductOpen    = "product_open"
	ProfileEventProductView    = "product_view"
	ProfileEventCollectionOpen = "collection_open"
)

// ProfileEvent is one discrete signal folded into an InterestProfile.
type ProfileEvent struct {
	Type       string   `json:"type"`
	Handle     string   `json:"handle,omitempty"`
	Category   string   `json:"category,omitempty"`
	Vendor     string   `json:"vendor,omitempty"`
	Terms      []string `json:"terms,omitempty"`
	OccurredAt int64    `json:"occurred_at"` // epoch millis
}
