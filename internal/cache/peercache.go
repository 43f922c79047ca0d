package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"locshare/internal/domain"
)

// PeerCache is the in-memory working set of peer records. Reads go through
// an immutable snapshot behind a single atomic pointer, so readers never
// block and never observe a partially-updated mapping. Writers build a new
// snapshot and swap the pointer; a mutex serializes them so read-modify-write
// updates cannot lose each other.
//
// Durable storage is the source of truth across restarts. The cache is
// loaded wholesale at startup and flushed back wholesale on Save; it is not
// synchronized continuously.
type PeerCache struct {
	store domain.PeerStore
	log   *zap.Logger

	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[map[domain.PeerID]domain.PeerRecord]
}

// New returns an empty cache backed by store.
func New(store domain.PeerStore, log *zap.Logger) *PeerCache {
	if log == nil {
		log = zap.NewNop()
	}
	c := &PeerCache{store: store, log: log.Named("peercache")}
	empty := map[domain.PeerID]domain.PeerRecord{}
	c.snap.Store(&empty)
	return c
}

// Load replaces the working set with the durable store's contents.
func (c *PeerCache) Load(ctx context.Context) error {
	records, err := c.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load peers: %w", err)
	}
	c.ReplaceAll(records)
	c.log.Debug("loaded working set", zap.Int("peers", len(records)))
	return nil
}

// Save flushes the current working set to the durable store, replacing its
// contents in full.
func (c *PeerCache) Save(ctx context.Context) error {
	if err := c.store.ReplaceAll(ctx, c.All()); err != nil {
		return fmt.Errorf("save peers: %w", err)
	}
	return nil
}

// Get returns the record for id from the current snapshot.
func (c *PeerCache) Get(id domain.PeerID) (domain.PeerRecord, bool) {
	rec, ok := (*c.snap.Load())[id]
	return rec, ok
}

// All returns every record in the current snapshot.
func (c *PeerCache) All() []domain.PeerRecord {
	snap := *c.snap.Load()
	out := make([]domain.PeerRecord, 0, len(snap))
	for _, rec := range snap {
		out = append(out, rec)
	}
	return out
}

// Upsert inserts or replaces one record.
func (c *PeerCache) Upsert(rec domain.PeerRecord) {
	c.mutate(func(m map[domain.PeerID]domain.PeerRecord) {
		m[rec.ID] = rec
	})
}

// Delete removes the record for id, if present.
func (c *PeerCache) Delete(id domain.PeerID) {
	c.mutate(func(m map[domain.PeerID]domain.PeerRecord) {
		delete(m, id)
	})
}

// Update applies fn to the current record for id and stores the result.
// The caller must have verified the record exists; a missing id is a
// contract violation and panics.
func (c *PeerCache) Update(id domain.PeerID, fn func(domain.PeerRecord) domain.PeerRecord) {
	c.mutate(func(m map[domain.PeerID]domain.PeerRecord) {
		rec, ok := m[id]
		if !ok {
			panic(fmt.Sprintf("peercache: update of unknown peer %d", id))
		}
		m[id] = fn(rec)
	})
}

// Filter retains only records for which keep returns true.
func (c *PeerCache) Filter(keep func(domain.PeerRecord) bool) {
	c.mutate(func(m map[domain.PeerID]domain.PeerRecord) {
		for id, rec := range m {
			if !keep(rec) {
				delete(m, id)
			}
		}
	})
}

// ReplaceAll swaps the entire working set for records.
func (c *PeerCache) ReplaceAll(records []domain.PeerRecord) {
	next := make(map[domain.PeerID]domain.PeerRecord, len(records))
	for _, rec := range records {
		next[rec.ID] = rec
	}
	c.mu.Lock()
	c.snap.Store(&next)
	c.mu.Unlock()
}

// PruneExpired drops records whose expiry has lapsed at nowMS and returns
// how many were removed. Pruning is caller-driven, never automatic.
func (c *PeerCache) PruneExpired(nowMS int64) int {
	removed := 0
	c.mutate(func(m map[domain.PeerID]domain.PeerRecord) {
		for id, rec := range m {
			if rec.Expired(nowMS) {
				delete(m, id)
				removed++
			}
		}
	})
	return removed
}

// mutate builds the successor snapshot under the writer lock and publishes
// it with one pointer swap.
func (c *PeerCache) mutate(apply func(map[domain.PeerID]domain.PeerRecord)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := *c.snap.Load()
	next := make(map[domain.PeerID]domain.PeerRecord, len(cur)+1)
	for id, rec := range cur {
		next[id] = rec
	}
	apply(next)
	c.snap.Store(&next)
}
