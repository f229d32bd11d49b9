package services

import (
	"context"

	"emt/internal/models"
	"emt/internal/providers"
	"emt/internal/store"
)

// EngagementServiceInterface is the public contract above the counter store.
// Every operation validates first and short-circuits before touching the
// store. Write operations are safe under at-least-once delivery: retries do
// not change the final state beyond a single successful call, except for the
// deliberate undo semantics of a repeated identical vote or save.
type EngagementServiceInterface interface {
	TrackView(ctx context.Context, req *models.TrackViewRequest) (*models.TrackViewResult, error)
	ToggleVote(ctx context.Context, req *models.VoteRequest) (*models.VoteResult, error)
	ToggleSave(ctx context.Context, req *models.SaveRequest) (*models.SaveResult, error)
	GetMetrics(ctx context.Context, itemID, fingerprint string) (*models.ItemMetrics, error)
	GetTrending(ctx context.Context) (*models.TrendingResult, error)
}

type EngagementService struct {
	store  store.EngagementStoreInterface
	logger providers.Logger
}

func NewEngagementService(engagementStore store.EngagementStoreInterface, logger providers.Logger) EngagementServiceInterface {
	return &EngagementService{
		store:  engagementStore,
		logger: logger,
	}
}

func (es *EngagementService) TrackView(ctx context.Context, req *models.TrackViewRequest) (*models.TrackViewResult, error) {
	payload, err := ValidateTrackView(req)
	if err != nil {
		return nil, err
	}
	count, err := es.store.RecordView(ctx, payload.ItemID, payload.Fingerprint)
	if err != nil {
		return nil, err
	}
	if payload.HasDwell {
		es.logger.Debugf(providers.TypePost, "View on %s, dwell %.1fs, estimate %d", payload.ItemID, payload.DwellTime, count)
	}
	return &models.TrackViewResult{ViewCount: count}, nil
}

func (es *EngagementService) ToggleVote(ctx context.Context, req *models.VoteRequest) (*models.VoteResult, error) {
	payload, err := ValidateVote(req)
	if err != nil {
		return nil, err
	}
	state, err := es.store.SetVote(ctx, payload.ItemID, payload.Fingerprint, req.Vote)
	if err != nil {
		return nil, err
	}
	counts, err := es.store.ReadCounts(ctx, payload.ItemID)
	if err != nil {
		return nil, err
	}
	return &models.VoteResult{Vote: state, Metrics: counts}, nil
}

func (es *EngagementService) ToggleSave(ctx context.Context, req *models.SaveRequest) (*models.SaveResult, error) {
	payload, err := ValidateSave(req)
	if err != nil {
		return nil, err
	}
	saved, err := es.store.ToggleSave(ctx, payload.ItemID, payload.Fingerprint)
	if err != nil {
		return nil, err
	}
	counts, err := es.store.ReadCounts(ctx, payload.ItemID)
	if err != nil {
		return nil, err
	}
	return &models.SaveResult{Saved: saved, SaveCount: counts.Saves}, nil
}

// GetMetrics never substitutes zeros for a failed read: a store error
// propagates so the boundary can distinguish "no activity" from
// "store unreachable".
func (es *EngagementService) GetMetrics(ctx context.Context, itemID, fingerprint string) (*models.ItemMetrics, error) {
	id, err := ValidateItemID(itemID)
	if err != nil {
		return nil, err
	}
	counts, err := es.store.ReadCounts(ctx, id)
	if err != nil {
		return nil, err
	}
	result := &models.ItemMetrics{Metrics: counts}

	if fingerprint != "" {
		fp, err := ValidateFingerprint(fingerprint)
		if err != nil {
			return nil, err
		}
		state, err := es.store.ReadUserState(ctx, id, fp)
		if err != nil {
			return nil, err
		}
		result.UserState = &state
	}
	return result, nil
}

// GetTrending serves the current snapshot, falls back to the last-known-good
// backup flagged stale, and degrades to an empty ranking so the page renders
// even when both are gone.
func (es *EngagementService) GetTrending(ctx context.Context) (*models.TrendingResult, error) {
	snap, err := es.store.GetSnapshot(ctx, store.SlotCurrent)
	if err == nil {
		return &models.TrendingResult{Trending: snap.Entries, Stale: false}, nil
	}
	if err != store.ErrSnapshotNotFound {
		es.logger.Errorf(providers.TypeGet, "Current trending unreadable, trying backup: %s", err)
	}

	snap, err = es.store.GetSnapshot(ctx, store.SlotBackup)
	if err == nil {
		return &models.TrendingResult{Trending: snap.Entries, Stale: true}, nil
	}
	if err != store.ErrSnapshotNotFound {
		es.logger.Errorf(providers.TypeGet, "Backup trending unreadable, serving empty: %s", err)
		return &models.TrendingResult{Trending: []models.TrendingEntry{}, Stale: true}, nil
	}

	// Cold start: no successful run has published yet.
	return &models.TrendingResult{Trending: []models.TrendingEntry{}, Stale: false}, nil
}
