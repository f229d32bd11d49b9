package models

import "time"

// VoteKind is the direction of a vote submission.
type VoteKind string

const (
	VoteHelpful    VoteKind = "helpful"
	VoteNotHelpful VoteKind = "not_helpful"
)

func (k VoteKind) Valid() bool {
	return k == VoteHelpful || k == VoteNotHelpful
}

// Opposite returns the other vote kind.
func (k VoteKind) Opposite() VoteKind {
	if k == VoteHelpful {
		return VoteNotHelpful
	}
	return VoteHelpful
}

// VoteState is a fingerprint's committed vote for one item.
// A fingerprint is a member of at most one vote set per item.
type VoteState string

const (
	VoteStateNone       VoteState = "none"
	VoteStateHelpful    VoteState = "helpful"
	VoteStateNotHelpful VoteState = "not_helpful"
)

// AggregateMetrics is the derived read-only view of one item's counters.
// Views is an estimate; the vote and save counts are exact set cardinalities.
type AggregateMetrics struct {
	Views      int64 `json:"views"`
	Helpful    int64 `json:"helpful"`
	NotHelpful int64 `json:"not_helpful"`
	Saves      int64 `json:"saves"`
}

// UserState is one fingerprint's relationship to one item.
type UserState struct {
	Vote  VoteState `json:"vote"`
	Saved bool      `json:"saved"`
}

// TrendingEntry is one ranked item inside a trending snapshot.
type TrendingEntry struct {
	ItemID  string           `json:"item_id"`
	Score   float64          `json:"score"`
	Metrics AggregateMetrics `json:"metrics"`
}

// TrendingSnapshot is the atomically published ranking artifact.
// Entries are ordered by score descending, item id ascending on ties.
type TrendingSnapshot struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Entries     []TrendingEntry `json:"entries"`
}

// TrackViewRequest is the boundary payload for view tracking.
// DwellTime is decoded as-is; the validator coerces and range-checks it.
type TrackViewRequest struct {
	ItemID      string `json:"itemId"`
	Fingerprint string `json:"fingerprint"`
	DwellTime   any    `json:"dwellTime,omitempty"`
}

// VoteRequest is the boundary payload for vote toggling.
type VoteRequest struct {
	ItemID      string   `json:"itemId"`
	Fingerprint string   `json:"fingerprint"`
	Vote        VoteKind `json:"vote"`
}

// SaveRequest is the boundary payload for save toggling.
type SaveRequest struct {
	ItemID      string `json:"itemId"`
	Fingerprint string `json:"fingerprint"`
}

// TrackViewResult reports the estimated unique view count after tracking.
type TrackViewResult struct {
	ViewCount int64 `json:"viewCount"`
}

// VoteResult reports the committed per-fingerprint vote state.
type VoteResult struct {
	Vote    VoteState        `json:"vote"`
	Metrics AggregateMetrics `json:"metrics"`
}

// SaveResult reports the save membership after toggling.
type SaveResult struct {
	Saved     bool  `json:"saved"`
	SaveCount int64 `json:"saveCount"`
}

// ItemMetrics is the combined read response for one item.
// UserState is nil when the caller supplied no fingerprint.
type ItemMetrics struct {
	Metrics   AggregateMetrics `json:"metrics"`
	UserState *UserState       `json:"userState"`
}

// TrendingResult is the ranking read response. Stale is true when the
// entries were served from the last-known-good backup.
type TrendingResult struct {
	Trending []TrendingEntry `json:"trending"`
	Stale    bool            `json:"stale"`
}

// ClearCachesResult reports per-key outcomes of an administrative
// cache invalidation. Failures are individual, never all-or-nothing.
type ClearCachesResult struct {
	KeysDeleted int               `json:"keysDeleted"`
	Results     map[string]string `json:"perKeyResult"`
}
