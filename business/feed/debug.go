package feed

import (
	"sync"

	"myShopFeed/domain"
)

// DebugSink receives structured snapshots after a page is built. It must
// never feed back into ranking.
type DebugSink interface {
	RecordSnapshot(s domain.DebugSnapshot)
}

// NoopSink is the production default.
type NoopSink struct{}

func (NoopSink) RecordSnapshot(domain.DebugSnapshot) {}

// MemorySink keeps the most recent snapshots in a bounded ring for the
// debug host to expose.
type MemorySink struct {
	mu        sync.Mutex
	snapshots []domain.DebugSnapshot
	limit     int
}

func NewMemorySink(limit int) *MemorySink {
	if limit <= 0 {
		limit = 20
	}
	return &MemorySink{limit: limit}
}

func (m *MemorySink) RecordSnapshot(s domain.DebugSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots = append(m.snapshots, s)
	if len(m.snapshots) > m.limit {
		m.snapshots = m.snapshots[len(m.snapshots)-m.limit:]
	}
}

// Recent returns up to n snapshots, newest last.
func (m *MemorySink) Recent(n int) []domain.DebugSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 || n > len(m.snapshots) {
		n = len(m.snapshots)
	}
	out := make([]domain.DebugSnapshot, n)
	copy(out, m.snapshots[len(m.snapshots)-n:])
	return out
}
