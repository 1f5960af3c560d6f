package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myShopFeed/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// feedStateRow is a JSON blob keyed by customer-scoped state key, e.g.
// "affinity:<customer>" or "profile:<customer>".
type feedStateRow struct {
	Key       string `gorm:"column:key;primaryKey"`
	StateJSON []byte `gorm:"column:state_json"`
}

func (feedStateRow) TableName() string {
	return "feed_state"
}

// FeedStateRepository is the remote persistence tier for feed state
// blobs. Callers must treat domain.ErrPermissionDenied as permanent and
// stop writing.
type FeedStateRepository struct {
	DB *gorm.DB
}

func NewFeedStateRepository(db *gorm.DB) *FeedStateRepository {
	return &FeedStateRepository{DB: db}
}

func (r *FeedStateRepository) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row feedStateRow
	err := r.DB.WithContext(ctx).First(&row, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		if isPermissionDenied(err) {
			return nil, fmt.Errorf("failed to query feed_state: %w", domain.ErrPermissionDenied)
		}
		return nil, fmt.Errorf("failed to query feed_state: %w", err)
	}

	return row.StateJSON, nil
}

func (r *FeedStateRepository) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	row := feedStateRow{
		Key:       key,
		StateJSON: data,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		if isPermissionDenied(err) {
			return fmt.Errorf("failed to upsert feed_state: %w", domain.ErrPermissionDenied)
		}
		return fmt.Errorf("failed to upsert feed_state: %w", err)
	}

	return nil
}

func (r *FeedStateRepository) Reset(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Delete(&feedStateRow{}, "key = ?", key).Error; err != nil {
		if isPermissionDenied(err) {
			return fmt.Errorf("failed to delete feed_state: %w", domain.ErrPermissionDenied)
		}
		return fmt.Errorf("failed to delete feed_state: %w", err)
	}

	return nil
}

// isPermissionDenied recognizes SQLSTATE 42501 (insufficient privilege)
// so the tiered store can permanently disable the remote tier instead of
// retrying a write that will never succeed.
func isPermissionDenied(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42501"
	}
	return strings.Contains(strings.ToLower(err.Error()), "permission denied")
}
