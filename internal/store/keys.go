package store

import (
	"errors"

	"emt/internal/models"
)

// Key layout: every persisted key carries a stable prefix and a schema
// version segment so a rollout can bump the version instead of mutating
// key semantics in place.
const (
	keyPrefix  = "emt"
	keyVersion = "v1"

	SlotCurrent = "trending:current"
	SlotBackup  = "trending:backup"
)

// ErrSnapshotNotFound marks an absent trending slot; the read path treats
// it as fallback, not failure.
var ErrSnapshotNotFound = errors.New("trending snapshot not found")

func viewKey(itemID string) string {
	return keyPrefix + ":" + keyVersion + ":view:" + itemID
}

func voteKey(itemID string, kind models.VoteKind) string {
	if kind == models.VoteHelpful {
		return keyPrefix + ":" + keyVersion + ":vote:helpful:" + itemID
	}
	return keyPrefix + ":" + keyVersion + ":vote:nothelpful:" + itemID
}

func saveKey(itemID string) string {
	return keyPrefix + ":" + keyVersion + ":save:" + itemID
}

func itemsKey() string {
	return keyPrefix + ":" + keyVersion + ":items"
}

// SnapshotKey resolves a slot name to its persisted key.
func SnapshotKey(slot string) string {
	return keyPrefix + ":" + keyVersion + ":" + slot
}
