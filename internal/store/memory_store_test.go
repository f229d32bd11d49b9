package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emt/internal/models"
)

func ctx() context.Context { return context.Background() }

func TestMemoryStore_RecordView_Idempotent(t *testing.T) {
	s := NewMemoryStore()

	count, err := s.RecordView(ctx(), "guide-one", "fp1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Same fingerprint again must not move the estimate.
	count, err = s.RecordView(ctx(), "guide-one", "fp1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = s.RecordView(ctx(), "guide-one", "fp2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMemoryStore_RecordView_PerItem(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.RecordView(ctx(), "guide-one", "fp1")
	require.NoError(t, err)
	count, err := s.RecordView(ctx(), "guide-two", "fp1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStore_SetVote_ToggleExclusivity(t *testing.T) {
	s := NewMemoryStore()

	state, err := s.SetVote(ctx(), "guide-one", "fp1", models.VoteHelpful)
	require.NoError(t, err)
	assert.Equal(t, models.VoteStateHelpful, state)

	state, err = s.SetVote(ctx(), "guide-one", "fp1", models.VoteNotHelpful)
	require.NoError(t, err)
	assert.Equal(t, models.VoteStateNotHelpful, state)

	counts, err := s.ReadCounts(ctx(), "guide-one")
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.Helpful)
	assert.Equal(t, int64(1), counts.NotHelpful)

	user, err := s.ReadUserState(ctx(), "guide-one", "fp1")
	require.NoError(t, err)
	assert.Equal(t, models.VoteStateNotHelpful, user.Vote)
}

func TestMemoryStore_SetVote_Retraction(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.SetVote(ctx(), "guide-one", "fp1", models.VoteHelpful)
	require.NoError(t, err)
	counts, _ := s.ReadCounts(ctx(), "guide-one")
	assert.Equal(t, int64(1), counts.Helpful)

	state, err := s.SetVote(ctx(), "guide-one", "fp1", models.VoteHelpful)
	require.NoError(t, err)
	assert.Equal(t, models.VoteStateNone, state)

	counts, _ = s.ReadCounts(ctx(), "guide-one")
	assert.Equal(t, int64(0), counts.Helpful)

	user, _ := s.ReadUserState(ctx(), "guide-one", "fp1")
	assert.Equal(t, models.VoteStateNone, user.Vote)
}

func TestMemoryStore_ToggleSave_RoundTrip(t *testing.T) {
	s := NewMemoryStore()

	saved, err := s.ToggleSave(ctx(), "guide-one", "fp1")
	require.NoError(t, err)
	assert.True(t, saved)

	counts, _ := s.ReadCounts(ctx(), "guide-one")
	assert.Equal(t, int64(1), counts.Saves)

	saved, err = s.ToggleSave(ctx(), "guide-one", "fp1")
	require.NoError(t, err)
	assert.False(t, saved)

	counts, _ = s.ReadCounts(ctx(), "guide-one")
	assert.Equal(t, int64(0), counts.Saves)
}

func TestMemoryStore_ReadCounts_UnknownItemIsZero(t *testing.T) {
	s := NewMemoryStore()

	counts, err := s.ReadCounts(ctx(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, models.AggregateMetrics{}, counts)
}

func TestMemoryStore_ReadUserState_UnknownItem(t *testing.T) {
	s := NewMemoryStore()

	state, err := s.ReadUserState(ctx(), "never-seen", "fp1")
	require.NoError(t, err)
	assert.Equal(t, models.VoteStateNone, state.Vote)
	assert.False(t, state.Saved)
}

func TestMemoryStore_ListItems_Sorted(t *testing.T) {
	s := NewMemoryStore()

	for _, id := range []string{"zebra", "alpha", "mango"} {
		_, err := s.RecordView(ctx(), id, "fp1")
		require.NoError(t, err)
	}

	items, err := s.ListItems(ctx())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mango", "zebra"}, items)

	count, err := s.ItemCount(ctx())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMemoryStore_Snapshots(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.GetSnapshot(ctx(), SlotCurrent)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	snap := &models.TrendingSnapshot{
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Entries: []models.TrendingEntry{
			{ItemID: "guide-one", Score: 12.5},
		},
	}
	require.NoError(t, s.PutSnapshot(ctx(), SlotCurrent, snap))

	got, err := s.GetSnapshot(ctx(), SlotCurrent)
	require.NoError(t, err)
	assert.Equal(t, snap.Entries, got.Entries)
	assert.True(t, snap.GeneratedAt.Equal(got.GeneratedAt))

	require.NoError(t, s.DeleteSnapshot(ctx(), SlotCurrent))
	_, err = s.GetSnapshot(ctx(), SlotCurrent)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	// Deleting an absent slot is not an error.
	require.NoError(t, s.DeleteSnapshot(ctx(), SlotCurrent))
}

func TestMemoryStore_ConcurrentVotes_SamePair(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.SetVote(ctx(), "guide-one", "fp1", models.VoteHelpful)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.SetVote(ctx(), "guide-one", "fp1", models.VoteNotHelpful)
		}()
	}
	wg.Wait()

	// Whatever interleaving happened, the fingerprint is never in both sets.
	counts, err := s.ReadCounts(ctx(), "guide-one")
	require.NoError(t, err)
	assert.LessOrEqual(t, counts.Helpful+counts.NotHelpful, int64(1))
}

func TestMemoryStore_ConcurrentViews(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	fps := []string{"fp1", "fp2", "fp3", "fp4", "fp5"}
	for i := 0; i < 50; i++ {
		for _, fp := range fps {
			wg.Add(1)
			go func(fp string) {
				defer wg.Done()
				_, _ = s.RecordView(ctx(), "guide-one", fp)
			}(fp)
		}
	}
	wg.Wait()

	counts, err := s.ReadCounts(ctx(), "guide-one")
	require.NoError(t, err)
	assert.Equal(t, int64(len(fps)), counts.Views)
}
