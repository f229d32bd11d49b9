package trending

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/atomic"

	"emt/internal/models"
	"emt/internal/providers"
	"emt/internal/store"
	"emt/internal/structures"
)

// ScoreFunc combines one item's aggregate metrics into a trending score.
// Must be a deterministic, pure function of its input so that runs over the
// same data produce the same ranking.
type ScoreFunc func(m models.AggregateMetrics) float64

// DefaultScore weighs explicit signals above raw views and adds a bonus for
// a high helpful ratio: views + 4*helpful - 2*notHelpful + 3*saves
// + 5*helpful/(helpful+notHelpful).
func DefaultScore(m models.AggregateMetrics) float64 {
	score := float64(m.Views) +
		4*float64(m.Helpful) -
		2*float64(m.NotHelpful) +
		3*float64(m.Saves)
	if total := m.Helpful + m.NotHelpful; total > 0 {
		score += 5 * float64(m.Helpful) / float64(total)
	}
	return score
}

// Run states. A failed run passes straight back to StateIdle; only a clean
// run transits through StatePublished.
const (
	StateIdle int32 = iota
	StateComputing
	StatePublished
)

// Recomputer rebuilds the trending ranking from live counters and publishes
// it atomically. The backup slot is only overwritten after a run in which
// every item's metrics were read successfully, so it always holds a fully
// computed, trustworthy snapshot.
type Recomputer struct {
	config  *structures.Config
	store   store.EngagementStoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	score   ScoreFunc

	state       *atomic.Int32
	lastSuccess *atomic.Time

	now func() time.Time
}

func NewRecomputer(conf *structures.Config, engagementStore store.EngagementStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Recomputer {
	return &Recomputer{
		config:      conf,
		store:       engagementStore,
		logger:      logger,
		metrics:     metrics,
		score:       DefaultScore,
		state:       atomic.NewInt32(StateIdle),
		lastSuccess: atomic.NewTime(time.Time{}),
		now:         time.Now,
	}
}

// SetScoreFunc swaps the scoring formula. Call before scheduling, not during.
func (r *Recomputer) SetScoreFunc(f ScoreFunc) {
	r.score = f
}

// State reports the current run state.
func (r *Recomputer) State() int32 {
	return r.state.Load()
}

// LastSuccess reports the generation time of the last published snapshot,
// zero before the first clean run.
func (r *Recomputer) LastSuccess() time.Time {
	return r.lastSuccess.Load()
}

// Run executes one recomputation under the configured deadline. Overlapping
// triggers are skipped: only one run may be in flight. Any per-item store
// failure or a deadline hit aborts the run and leaves both the current and
// backup slots exactly as they were.
func (r *Recomputer) Run(ctx context.Context) error {
	if !r.state.CompareAndSwap(StateIdle, StateComputing) {
		r.logger.Warnf(providers.TypeApp, "Trending run already in flight, skipping trigger")
		return nil
	}
	defer r.state.Store(StateIdle)

	ctx, cancel := context.WithTimeout(ctx, r.config.Trending.Deadline)
	defer cancel()

	start := time.Now()
	snap, err := r.compute(ctx)
	if err != nil {
		r.metrics.ObserveTrendingRun("failure", time.Since(start))
		r.logger.Errorf(providers.TypeApp, "Trending run aborted, backup preserved: %s", err)
		return err
	}

	if err := r.publish(ctx, snap); err != nil {
		r.metrics.ObserveTrendingRun("failure", time.Since(start))
		r.logger.Errorf(providers.TypeApp, "Trending publish failed: %s", err)
		return err
	}

	r.state.Store(StatePublished)
	r.lastSuccess.Store(snap.GeneratedAt)
	r.metrics.ObserveTrendingRun("success", time.Since(start))
	r.metrics.SetTrendingGeneratedAt(snap.GeneratedAt)
	r.logger.Infof(providers.TypeApp, "Trending published: %d entries in %s", len(snap.Entries), time.Since(start))
	return nil
}

// compute reads every known item's metrics and ranks them. Item reads are
// independent point-in-time snapshots; they are not required to be mutually
// consistent with each other.
func (r *Recomputer) compute(ctx context.Context) (*models.TrendingSnapshot, error) {
	items, err := r.store.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	r.metrics.SetItemsTracked(len(items))

	entries := make([]models.TrendingEntry, 0, len(items))
	for _, itemID := range items {
		if ctx.Err() != nil {
			return nil, models.NewStoreError(models.StoreUnavailable, "compute", ctx.Err())
		}
		counts, err := r.store.ReadCounts(ctx, itemID)
		if err != nil {
			return nil, err
		}
		score := r.score(counts)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, models.NewComputeError("score", errInvalidScore(itemID, score))
		}
		entries = append(entries, models.TrendingEntry{ItemID: itemID, Score: score, Metrics: counts})
	}

	// Stable order: score descending, item id ascending on equal scores.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].ItemID < entries[j].ItemID
	})
	if topN := r.config.Trending.TopN; topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}

	return &models.TrendingSnapshot{GeneratedAt: r.now(), Entries: entries}, nil
}

// publish writes current first, backup second. Reaching the backup write
// means every read succeeded, so the backup invariant holds even if the
// backup write itself fails: it still holds the previous clean snapshot.
func (r *Recomputer) publish(ctx context.Context, snap *models.TrendingSnapshot) error {
	if err := r.store.PutSnapshot(ctx, store.SlotCurrent, snap); err != nil {
		return err
	}
	return r.store.PutSnapshot(ctx, store.SlotBackup, snap)
}
