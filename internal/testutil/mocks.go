package testutil

import (
	"context"
	"sync"
	"time"

	"emt/internal/models"
	"emt/internal/providers"
	"emt/internal/store"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// HasLevel reports whether any recorded entry carries the given level.
func (m *MockLogger) HasLevel(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu           sync.Mutex
	Requests     int
	CacheHits    int
	CacheMisses  int
	StoreOps     map[string]int
	StoreErrors  map[string]int
	TrendingRuns map[string]int
	ItemsTracked int
	GeneratedAt  time.Time
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObserveStoreOp(op string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreOps == nil {
		m.StoreOps = make(map[string]int)
	}
	m.StoreOps[op]++
}
func (m *MockMetrics) IncStoreErrors(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErrors == nil {
		m.StoreErrors = make(map[string]int)
	}
	m.StoreErrors[op]++
}
func (m *MockMetrics) ObserveTrendingRun(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TrendingRuns == nil {
		m.TrendingRuns = make(map[string]int)
	}
	m.TrendingRuns[outcome]++
}
func (m *MockMetrics) SetTrendingGeneratedAt(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GeneratedAt = at
}
func (m *MockMetrics) SetItemsTracked(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsTracked = count
}

// MockCompressor is a pass-through compressor for persistence tests.
type MockCompressor struct{}

func (m *MockCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (m *MockCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }
func (m *MockCompressor) Close()                                {}

// MockCache implements providers.CacheProviderInterface over a plain map.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Data[key]
	delete(m.Data, key)
	return ok
}

// FlakyStore wraps a real store and injects failures per operation, used to
// exercise the error taxonomy and the trending backup invariant.
type FlakyStore struct {
	store.EngagementStoreInterface

	FailReadCountsFor map[string]error
	ListItemsErr      error
	RecordViewErr     error
	SetVoteErr        error
	ToggleSaveErr     error
	PutSnapshotErr    error
	GetSnapshotErr    error
}

func NewFlakyStore(inner store.EngagementStoreInterface) *FlakyStore {
	return &FlakyStore{EngagementStoreInterface: inner}
}

func (f *FlakyStore) RecordView(ctx context.Context, itemID, fingerprint string) (int64, error) {
	if f.RecordViewErr != nil {
		return 0, f.RecordViewErr
	}
	return f.EngagementStoreInterface.RecordView(ctx, itemID, fingerprint)
}

func (f *FlakyStore) SetVote(ctx context.Context, itemID, fingerprint string, kind models.VoteKind) (models.VoteState, error) {
	if f.SetVoteErr != nil {
		return models.VoteStateNone, f.SetVoteErr
	}
	return f.EngagementStoreInterface.SetVote(ctx, itemID, fingerprint, kind)
}

func (f *FlakyStore) ToggleSave(ctx context.Context, itemID, fingerprint string) (bool, error) {
	if f.ToggleSaveErr != nil {
		return false, f.ToggleSaveErr
	}
	return f.EngagementStoreInterface.ToggleSave(ctx, itemID, fingerprint)
}

func (f *FlakyStore) ReadCounts(ctx context.Context, itemID string) (models.AggregateMetrics, error) {
	if err, ok := f.FailReadCountsFor[itemID]; ok {
		return models.AggregateMetrics{}, err
	}
	return f.EngagementStoreInterface.ReadCounts(ctx, itemID)
}

func (f *FlakyStore) ListItems(ctx context.Context) ([]string, error) {
	if f.ListItemsErr != nil {
		return nil, f.ListItemsErr
	}
	return f.EngagementStoreInterface.ListItems(ctx)
}

func (f *FlakyStore) PutSnapshot(ctx context.Context, slot string, snap *models.TrendingSnapshot) error {
	if f.PutSnapshotErr != nil {
		return f.PutSnapshotErr
	}
	return f.EngagementStoreInterface.PutSnapshot(ctx, slot, snap)
}

func (f *FlakyStore) GetSnapshot(ctx context.Context, slot string) (*models.TrendingSnapshot, error) {
	if f.GetSnapshotErr != nil {
		return nil, f.GetSnapshotErr
	}
	return f.EngagementStoreInterface.GetSnapshot(ctx, slot)
}
