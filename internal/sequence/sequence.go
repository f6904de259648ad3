// Package sequence assigns permanent per-tote item numbers. Sequence numbers
// are append-only identity, not a dense index: once issued they are never
// reused, even after the item's record is removed.
package sequence

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
)

// MaxSource supplies the highest sequence number already durable for a tote.
// The persistence collaborator implements this.
type MaxSource interface {
	MaxSequence(ctx context.Context, toteID string) (int, error)
}

// Manager issues sequence numbers. Issue order is serialized per process:
// "read max, issue next" is not atomic otherwise and concurrent items could
// collide. Recovery after a crash is re-deriving "max observed + 1" from the
// durable record set, which the manager does on first issue per tote.
type Manager struct {
	source MaxSource

	mu     sync.Mutex
	issued map[string]int // tote → highest number issued this session
}

// NewManager creates a Manager backed by the given durable max source.
func NewManager(source MaxSource) *Manager {
	return &Manager{
		source: source,
		issued: make(map[string]int),
	}
}

// Next returns one greater than the highest sequence number ever issued for
// the tote, counting both durable records (including later-removed ones whose
// numbers stay burned) and numbers issued this session that have not been
// persisted yet. A tote with no history starts at 1.
func (m *Manager) Next(ctx context.Context, toteID string) (int, error) {
	if toteID == "" {
		return 0, eris.New("sequence: empty tote id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	durable, err := m.source.MaxSequence(ctx, toteID)
	if err != nil {
		return 0, eris.Wrapf(err, "sequence: max for tote %s", toteID)
	}

	high := durable
	if issued := m.issued[toteID]; issued > high {
		high = issued
	}

	next := high + 1
	m.issued[toteID] = next
	return next, nil
}
