package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Interaction event types recorded by the affinity tracker.
const (
	InteractionView      = "view"
	InteractionAddToCart = "atc"
)

// InteractionEvent is the raw event-log row persisted alongside the
// tracker state, kept for offline analysis.
type InteractionEvent struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	CustomerKey string            `gorm:"column:customer_key;not null" json:"customer_key"`
	Handle      string            `gorm:"column:handle;not null" json:"handle"`
	EventType   string            `gorm:"column:event_type;not null" json:"event_type"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Context     datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
}

func (InteractionEvent) TableName() string {
	return "feed_interaction_events"
}
