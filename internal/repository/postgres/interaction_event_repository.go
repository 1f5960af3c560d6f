package postgres

import (
	"context"
	"fmt"

	"myShopFeed/domain"

	"gorm.io/gorm"
)

// InteractionEventRepository appends raw interaction events for offline
// analysis. Reads happen out of band; only the debug host queries back.
type InteractionEventRepository struct {
	DB *gorm.DB
}

func NewInteractionEventRepository(db *gorm.DB) *InteractionEventRepository {
	return &InteractionEventRepository{DB: db}
}

func (r *InteractionEventRepository) SaveEvent(ctx context.Context, event domain.InteractionEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save interaction event: %w", err)
	}

	return nil
}

// RecentEvents returns the newest events for one customer, newest first.
func (r *InteractionEventRepository) RecentEvents(ctx context.Context, customerKey string, limit int) ([]domain.InteractionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}

	var events []domain.InteractionEvent
	err := r.DB.WithContext(ctx).
		Where("customer_key = ?", customerKey).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query interaction events: %w", err)
	}

	return events, nil
}
