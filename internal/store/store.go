package store

import (
	"context"

	"emt/internal/models"
)

// EngagementStoreInterface is the system of record for per-item counters and
// the published trending snapshots. All coordination (vote-set exclusivity,
// toggle atomicity, idempotent view adds) lives behind this interface in
// backend-native operations; callers are stateless and hold no locks.
type EngagementStoreInterface interface {
	// RecordView adds the fingerprint to the item's unique-view estimator
	// and returns the resulting cardinality estimate. Repeating the same
	// fingerprint does not materially change the estimate.
	RecordView(ctx context.Context, itemID, fingerprint string) (int64, error)

	// SetVote toggles the fingerprint's vote. Casting the opposite kind
	// atomically swaps set membership; repeating the same kind retracts it.
	SetVote(ctx context.Context, itemID, fingerprint string, kind models.VoteKind) (models.VoteState, error)

	// ToggleSave flips save-set membership and returns the new state.
	ToggleSave(ctx context.Context, itemID, fingerprint string) (bool, error)

	// ReadCounts returns a point-in-time read of all four measures.
	ReadCounts(ctx context.Context, itemID string) (models.AggregateMetrics, error)

	// ReadUserState is a pure membership check, no mutation.
	ReadUserState(ctx context.Context, itemID, fingerprint string) (models.UserState, error)

	// ListItems returns every item id with recorded activity, sorted.
	ListItems(ctx context.Context) ([]string, error)

	// GetSnapshot reads a published trending artifact by slot
	// (SlotCurrent or SlotBackup). Returns ErrSnapshotNotFound when absent.
	GetSnapshot(ctx context.Context, slot string) (*models.TrendingSnapshot, error)

	// PutSnapshot atomically replaces the artifact in the given slot.
	PutSnapshot(ctx context.Context, slot string, snap *models.TrendingSnapshot) error

	// DeleteSnapshot removes a published artifact. Deleting an absent
	// slot is not an error.
	DeleteSnapshot(ctx context.Context, slot string) error

	// ItemCount reports how many items have recorded activity.
	ItemCount(ctx context.Context) (int64, error)

	Close() error
}
