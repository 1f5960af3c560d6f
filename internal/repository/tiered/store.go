package tiered

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"myShopFeed/domain"
	"myShopFeed/pkg/logger"
	"myShopFeed/pkg/metrics"
)

// Tier is one persistence layer (local Redis, remote Postgres, memory).
type Tier interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Reset(ctx context.Context, key string) error
}

// Store layers a fast local tier under an authoritative remote tier.
// Reads prefer the remote copy and fall back to local; writes go to
// both. A permission-denied answer from the remote tier disables it for
// the rest of the process lifetime, so a revoked account degrades to
// local-only persistence instead of hammering the remote store.
type Store struct {
	local  Tier
	remote Tier

	mu             sync.Mutex
	remoteDisabled bool
}

func NewStore(local, remote Tier) *Store {
	return &Store{
		local:  local,
		remote: remote,
	}
}

func (s *Store) remoteAvailable() bool {
	if s.remote == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.remoteDisabled
}

func (s *Store) disableRemote(key string, err error) {
	s.mu.Lock()
	already := s.remoteDisabled
	s.remoteDisabled = true
	s.mu.Unlock()

	if !already {
		logger.Warn("remote_tier_disabled", "key", key, "error", err)
	}
}

// Read returns the remote copy when it exists, otherwise the local one.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if s.remoteAvailable() {
		data, err := s.remote.Read(ctx, key)
		if err == nil && data != nil {
			return data, nil
		}
		if err != nil {
			if errors.Is(err, domain.ErrPermissionDenied) {
				s.disableRemote(key, err)
			} else {
				logger.Debug("remote_read_failed", "key", key, "error", err)
			}
		}
	}

	if s.local == nil {
		return nil, nil
	}

	data, err := s.local.Read(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read local tier: %w", err)
	}
	return data, nil
}

// Write stores the blob in both tiers. A local failure is an error; a
// remote failure degrades silently apart from metrics and a log line.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if s.remoteAvailable() {
		if err := s.remote.Write(ctx, key, data); err != nil {
			metrics.StorageWriteFailures.WithLabelValues("remote").Inc()
			if errors.Is(err, domain.ErrPermissionDenied) {
				s.disableRemote(key, err)
			} else {
				logger.Warn("remote_write_failed", "key", key, "error", err)
			}
		}
	}

	if s.local == nil {
		return nil
	}

	if err := s.local.Write(ctx, key, data); err != nil {
		metrics.StorageWriteFailures.WithLabelValues("local").Inc()
		return fmt.Errorf("failed to write local tier: %w", err)
	}

	return nil
}

// Reset removes the blob from every reachable tier.
func (s *Store) Reset(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if s.remoteAvailable() {
		if err := s.remote.Reset(ctx, key); err != nil {
			if errors.Is(err, domain.ErrPermissionDenied) {
				s.disableRemote(key, err)
			} else {
				logger.Warn("remote_reset_failed", "key", key, "error", err)
			}
		}
	}

	if s.local == nil {
		return nil
	}

	if err := s.local.Reset(ctx, key); err != nil {
		return fmt.Errorf("failed to reset local tier: %w", err)
	}

	return nil
}

// RemoteDisabled reports whether the remote tier has been switched off
// for this session.
func (s *Store) RemoteDisabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteDisabled
}
