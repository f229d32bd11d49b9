package store

import (
	"context"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"emt/internal/models"
)

// itemCounters holds one item's live counters. Votes map fingerprint to the
// vote timestamp; the timestamp is kept for administrative inspection only,
// membership is what counts.
type itemCounters struct {
	views      *viewEstimator
	helpful    map[string]time.Time
	notHelpful map[string]time.Time
	saves      map[string]struct{}
}

func newItemCounters() *itemCounters {
	return &itemCounters{
		views:      newViewEstimator(),
		helpful:    make(map[string]time.Time),
		notHelpful: make(map[string]time.Time),
		saves:      make(map[string]struct{}),
	}
}

// MemoryStore is the in-process backend used for development and tests.
// A single mutex makes every operation, including the vote-set swap,
// atomic per (item, fingerprint) pair. Counts are exact, which keeps the
// estimator error at zero where the test suite asserts on small counts.
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[string]*itemCounters
	snapshots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:     make(map[string]*itemCounters),
		snapshots: make(map[string][]byte),
	}
}

func (m *MemoryStore) item(itemID string) *itemCounters {
	ic, ok := m.items[itemID]
	if !ok {
		ic = newItemCounters()
		m.items[itemID] = ic
	}
	return ic
}

func (m *MemoryStore) RecordView(_ context.Context, itemID, fingerprint string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ic := m.item(itemID)
	ic.views.Add(fingerprint)
	return ic.views.Cardinality(), nil
}

func (m *MemoryStore) SetVote(_ context.Context, itemID, fingerprint string, kind models.VoteKind) (models.VoteState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ic := m.item(itemID)
	same, opposite := ic.helpful, ic.notHelpful
	if kind == models.VoteNotHelpful {
		same, opposite = ic.notHelpful, ic.helpful
	}

	if _, ok := same[fingerprint]; ok {
		// Identical vote again retracts it.
		delete(same, fingerprint)
		return models.VoteStateNone, nil
	}
	delete(opposite, fingerprint)
	same[fingerprint] = time.Now()
	return voteStateOf(kind), nil
}

func voteStateOf(kind models.VoteKind) models.VoteState {
	if kind == models.VoteHelpful {
		return models.VoteStateHelpful
	}
	return models.VoteStateNotHelpful
}

func (m *MemoryStore) ToggleSave(_ context.Context, itemID, fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ic := m.item(itemID)
	if _, ok := ic.saves[fingerprint]; ok {
		delete(ic.saves, fingerprint)
		return false, nil
	}
	ic.saves[fingerprint] = struct{}{}
	return true, nil
}

func (m *MemoryStore) ReadCounts(_ context.Context, itemID string) (models.AggregateMetrics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ic, ok := m.items[itemID]
	if !ok {
		return models.AggregateMetrics{}, nil
	}
	return models.AggregateMetrics{
		Views:      ic.views.Cardinality(),
		Helpful:    int64(len(ic.helpful)),
		NotHelpful: int64(len(ic.notHelpful)),
		Saves:      int64(len(ic.saves)),
	}, nil
}

func (m *MemoryStore) ReadUserState(_ context.Context, itemID, fingerprint string) (models.UserState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state := models.UserState{Vote: models.VoteStateNone}
	ic, ok := m.items[itemID]
	if !ok {
		return state, nil
	}
	if _, ok := ic.helpful[fingerprint]; ok {
		state.Vote = models.VoteStateHelpful
	} else if _, ok := ic.notHelpful[fingerprint]; ok {
		state.Vote = models.VoteStateNotHelpful
	}
	_, state.Saved = ic.saves[fingerprint]
	return state, nil
}

func (m *MemoryStore) ListItems(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]string, 0, len(m.items))
	for id := range m.items {
		items = append(items, id)
	}
	sort.Strings(items)
	return items, nil
}

func (m *MemoryStore) ItemCount(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.items)), nil
}

func (m *MemoryStore) GetSnapshot(_ context.Context, slot string) (*models.TrendingSnapshot, error) {
	m.mu.RLock()
	data, ok := m.snapshots[SnapshotKey(slot)]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSnapshotNotFound
	}
	var snap models.TrendingSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, models.NewStoreError(models.StoreCorrupt, "get_snapshot", err)
	}
	return &snap, nil
}

func (m *MemoryStore) PutSnapshot(_ context.Context, slot string, snap *models.TrendingSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return models.NewStoreError(models.StoreCorrupt, "put_snapshot", err)
	}

	m.mu.Lock()
	m.snapshots[SnapshotKey(slot)] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) DeleteSnapshot(_ context.Context, slot string) error {
	m.mu.Lock()
	delete(m.snapshots, SnapshotKey(slot))
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
