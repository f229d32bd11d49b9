package store

import (
	"context"
	"time"

	"emt/internal/models"
	"emt/internal/providers"
)

// InstrumentedStore wraps a backend and records per-operation duration and
// failure counters, mirroring the instrumented response cache.
type InstrumentedStore struct {
	inner   EngagementStoreInterface
	metrics providers.MetricsProviderInterface
}

func NewInstrumentedStore(inner EngagementStoreInterface, metrics providers.MetricsProviderInterface) EngagementStoreInterface {
	return &InstrumentedStore{inner: inner, metrics: metrics}
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	s.metrics.ObserveStoreOp(op, time.Since(start))
	if err != nil {
		s.metrics.IncStoreErrors(op)
	}
}

func (s *InstrumentedStore) RecordView(ctx context.Context, itemID, fingerprint string) (int64, error) {
	start := time.Now()
	count, err := s.inner.RecordView(ctx, itemID, fingerprint)
	s.observe("record_view", start, err)
	return count, err
}

func (s *InstrumentedStore) SetVote(ctx context.Context, itemID, fingerprint string, kind models.VoteKind) (models.VoteState, error) {
	start := time.Now()
	state, err := s.inner.SetVote(ctx, itemID, fingerprint, kind)
	s.observe("set_vote", start, err)
	return state, err
}

func (s *InstrumentedStore) ToggleSave(ctx context.Context, itemID, fingerprint string) (bool, error) {
	start := time.Now()
	saved, err := s.inner.ToggleSave(ctx, itemID, fingerprint)
	s.observe("toggle_save", start, err)
	return saved, err
}

func (s *InstrumentedStore) ReadCounts(ctx context.Context, itemID string) (models.AggregateMetrics, error) {
	start := time.Now()
	counts, err := s.inner.ReadCounts(ctx, itemID)
	s.observe("read_counts", start, err)
	return counts, err
}

func (s *InstrumentedStore) ReadUserState(ctx context.Context, itemID, fingerprint string) (models.UserState, error) {
	start := time.Now()
	state, err := s.inner.ReadUserState(ctx, itemID, fingerprint)
	s.observe("read_user_state", start, err)
	return state, err
}

func (s *InstrumentedStore) ListItems(ctx context.Context) ([]string, error) {
	start := time.Now()
	items, err := s.inner.ListItems(ctx)
	s.observe("list_items", start, err)
	return items, err
}

func (s *InstrumentedStore) ItemCount(ctx context.Context) (int64, error) {
	return s.inner.ItemCount(ctx)
}

func (s *InstrumentedStore) GetSnapshot(ctx context.Context, slot string) (*models.TrendingSnapshot, error) {
	start := time.Now()
	snap, err := s.inner.GetSnapshot(ctx, slot)
	if err == ErrSnapshotNotFound {
		s.metrics.ObserveStoreOp("get_snapshot", time.Since(start))
		return nil, err
	}
	s.observe("get_snapshot", start, err)
	return snap, err
}

func (s *InstrumentedStore) PutSnapshot(ctx context.Context, slot string, snap *models.TrendingSnapshot) error {
	start := time.Now()
	err := s.inner.PutSnapshot(ctx, slot, snap)
	s.observe("put_snapshot", start, err)
	return err
}

func (s *InstrumentedStore) DeleteSnapshot(ctx context.Context, slot string) error {
	start := time.Now()
	err := s.inner.DeleteSnapshot(ctx, slot)
	s.observe("delete_snapshot", start, err)
	return err
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}
