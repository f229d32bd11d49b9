package store

import (
	"context"
	"errors"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"emt/internal/models"
)

// voteSwapRetries bounds optimistic-transaction retries when a concurrent
// writer touches the same vote sets between WATCH and EXEC.
const voteSwapRetries = 5

// RedisStore is the production backend. Idempotence and toggle atomicity are
// pushed into Redis primitives: PFADD for the unique-view estimator, sets for
// votes and saves, WATCH/MULTI for the per-(item,fingerprint) vote swap.
// Views are approximate (HyperLogLog); votes and saves stay exact.
type RedisStore struct {
	client    *redis.Client
	opTimeout time.Duration
}

func NewRedisStore(addr string, db int, opTimeout time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, models.NewStoreError(models.StoreUnavailable, "ping", err)
	}
	return &RedisStore{client: client, opTimeout: opTimeout}, nil
}

func (r *RedisStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opTimeout)
}

// storeErr wraps any backend/transport failure, timeouts included, as
// Unavailable. No partial mutation may be assumed to have applied.
func storeErr(op string, err error) error {
	return models.NewStoreError(models.StoreUnavailable, op, err)
}

func (r *RedisStore) RecordView(ctx context.Context, itemID, fingerprint string) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.PFAdd(ctx, viewKey(itemID), fingerprint)
	pipe.SAdd(ctx, itemsKey(), itemID)
	count := pipe.PFCount(ctx, viewKey(itemID))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, storeErr("record_view", err)
	}
	return count.Val(), nil
}

func (r *RedisStore) SetVote(ctx context.Context, itemID, fingerprint string, kind models.VoteKind) (models.VoteState, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	sameKey := voteKey(itemID, kind)
	oppositeKey := voteKey(itemID, kind.Opposite())

	var state models.VoteState
	swap := func(tx *redis.Tx) error {
		isMember, err := tx.SIsMember(ctx, sameKey, fingerprint).Result()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if isMember {
				pipe.SRem(ctx, sameKey, fingerprint)
				state = models.VoteStateNone
				return nil
			}
			pipe.SRem(ctx, oppositeKey, fingerprint)
			pipe.SAdd(ctx, sameKey, fingerprint)
			pipe.SAdd(ctx, itemsKey(), itemID)
			state = voteStateOf(kind)
			return nil
		})
		return err
	}

	for i := 0; i < voteSwapRetries; i++ {
		err := r.client.Watch(ctx, swap, sameKey, oppositeKey)
		if err == nil {
			return state, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return models.VoteStateNone, storeErr("set_vote", err)
	}
	return models.VoteStateNone, storeErr("set_vote", redis.TxFailedErr)
}

func (r *RedisStore) ToggleSave(ctx context.Context, itemID, fingerprint string) (bool, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	key := saveKey(itemID)
	var saved bool
	toggle := func(tx *redis.Tx) error {
		isMember, err := tx.SIsMember(ctx, key, fingerprint).Result()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if isMember {
				pipe.SRem(ctx, key, fingerprint)
				saved = false
				return nil
			}
			pipe.SAdd(ctx, key, fingerprint)
			pipe.SAdd(ctx, itemsKey(), itemID)
			saved = true
			return nil
		})
		return err
	}

	for i := 0; i < voteSwapRetries; i++ {
		err := r.client.Watch(ctx, toggle, key)
		if err == nil {
			return saved, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return false, storeErr("toggle_save", err)
	}
	return false, storeErr("toggle_save", redis.TxFailedErr)
}

func (r *RedisStore) ReadCounts(ctx context.Context, itemID string) (models.AggregateMetrics, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	pipe := r.client.Pipeline()
	views := pipe.PFCount(ctx, viewKey(itemID))
	helpful := pipe.SCard(ctx, voteKey(itemID, models.VoteHelpful))
	notHelpful := pipe.SCard(ctx, voteKey(itemID, models.VoteNotHelpful))
	saves := pipe.SCard(ctx, saveKey(itemID))
	if _, err := pipe.Exec(ctx); err != nil {
		return models.AggregateMetrics{}, storeErr("read_counts", err)
	}
	return models.AggregateMetrics{
		Views:      views.Val(),
		Helpful:    helpful.Val(),
		NotHelpful: notHelpful.Val(),
		Saves:      saves.Val(),
	}, nil
}

func (r *RedisStore) ReadUserState(ctx context.Context, itemID, fingerprint string) (models.UserState, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	pipe := r.client.Pipeline()
	helpful := pipe.SIsMember(ctx, voteKey(itemID, models.VoteHelpful), fingerprint)
	notHelpful := pipe.SIsMember(ctx, voteKey(itemID, models.VoteNotHelpful), fingerprint)
	saved := pipe.SIsMember(ctx, saveKey(itemID), fingerprint)
	if _, err := pipe.Exec(ctx); err != nil {
		return models.UserState{}, storeErr("read_user_state", err)
	}

	state := models.UserState{Vote: models.VoteStateNone, Saved: saved.Val()}
	if helpful.Val() {
		state.Vote = models.VoteStateHelpful
	} else if notHelpful.Val() {
		state.Vote = models.VoteStateNotHelpful
	}
	return state, nil
}

func (r *RedisStore) ListItems(ctx context.Context) ([]string, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	items, err := r.client.SMembers(ctx, itemsKey()).Result()
	if err != nil {
		return nil, storeErr("list_items", err)
	}
	sort.Strings(items)
	return items, nil
}

func (r *RedisStore) ItemCount(ctx context.Context) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	count, err := r.client.SCard(ctx, itemsKey()).Result()
	if err != nil {
		return 0, storeErr("item_count", err)
	}
	return count, nil
}

func (r *RedisStore) GetSnapshot(ctx context.Context, slot string) (*models.TrendingSnapshot, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	data, err := r.client.Get(ctx, SnapshotKey(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, storeErr("get_snapshot", err)
	}
	var snap models.TrendingSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, models.NewStoreError(models.StoreCorrupt, "get_snapshot", err)
	}
	return &snap, nil
}

func (r *RedisStore) PutSnapshot(ctx context.Context, slot string, snap *models.TrendingSnapshot) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	data, err := json.Marshal(snap)
	if err != nil {
		return models.NewStoreError(models.StoreCorrupt, "put_snapshot", err)
	}
	if err := r.client.Set(ctx, SnapshotKey(slot), data, 0).Err(); err != nil {
		return storeErr("put_snapshot", err)
	}
	return nil
}

func (r *RedisStore) DeleteSnapshot(ctx context.Context, slot string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	if err := r.client.Del(ctx, SnapshotKey(slot)).Err(); err != nil {
		return storeErr("delete_snapshot", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
