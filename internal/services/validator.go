package services

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"emt/internal/models"
)

const (
	maxFingerprintLen = 256
	maxItemIDLen      = 128
	maxDwellSeconds   = 86400
)

var itemIDPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidatedPayload is the normalized form of a boundary request. Pure output
// of validation; nothing here has touched the store yet.
type ValidatedPayload struct {
	ItemID      string
	Fingerprint string
	DwellTime   float64
	HasDwell    bool
}

// ValidateFingerprint checks the opaque client identifier. The value is
// pseudonymous and never verified, only required to be a sane string.
func ValidateFingerprint(fingerprint string) (string, error) {
	fp := strings.TrimSpace(fingerprint)
	if fp == "" {
		return "", models.NewValidationError(models.MissingFingerprint, "fingerprint is required")
	}
	if len(fp) > maxFingerprintLen {
		return "", models.NewValidationError(models.MissingFingerprint, "fingerprint exceeds %d bytes", maxFingerprintLen)
	}
	return fp, nil
}

// ValidateItemID normalizes and format-checks a content slug. Existence of
// the item is the caller's concern.
func ValidateItemID(itemID string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(itemID))
	if id == "" || len(id) > maxItemIDLen || !itemIDPattern.MatchString(id) {
		return "", models.NewValidationError(models.InvalidItemID, "item id %q is not a valid slug", itemID)
	}
	return id, nil
}

// ValidateDwellTime coerces the optional dwell-time field. JSON clients send
// it as a number or numeric string; anything non-numeric or out of range is
// structurally invalid.
func ValidateDwellTime(dwell any) (float64, bool, error) {
	if dwell == nil {
		return 0, false, nil
	}
	seconds, err := cast.ToFloat64E(dwell)
	if err != nil {
		return 0, false, models.NewValidationError(models.InvalidDwellTime, "dwell time is not numeric")
	}
	if seconds < 0 || seconds > maxDwellSeconds {
		return 0, false, models.NewValidationError(models.InvalidDwellTime, "dwell time %v out of range", seconds)
	}
	return seconds, true, nil
}

// ValidateTrackView validates a view-tracking payload.
func ValidateTrackView(req *models.TrackViewRequest) (*ValidatedPayload, error) {
	id, err := ValidateItemID(req.ItemID)
	if err != nil {
		return nil, err
	}
	fp, err := ValidateFingerprint(req.Fingerprint)
	if err != nil {
		return nil, err
	}
	seconds, has, err := ValidateDwellTime(req.DwellTime)
	if err != nil {
		return nil, err
	}
	return &ValidatedPayload{ItemID: id, Fingerprint: fp, DwellTime: seconds, HasDwell: has}, nil
}

// ValidateVote validates a vote payload, including the vote kind.
func ValidateVote(req *models.VoteRequest) (*ValidatedPayload, error) {
	id, err := ValidateItemID(req.ItemID)
	if err != nil {
		return nil, err
	}
	fp, err := ValidateFingerprint(req.Fingerprint)
	if err != nil {
		return nil, err
	}
	if !req.Vote.Valid() {
		return nil, models.NewValidationError(models.InvalidVoteKind, "vote kind %q is not one of helpful, not_helpful", req.Vote)
	}
	return &ValidatedPayload{ItemID: id, Fingerprint: fp}, nil
}

// ValidateSave validates a save-toggle payload.
func ValidateSave(req *models.SaveRequest) (*ValidatedPayload, error) {
	id, err := ValidateItemID(req.ItemID)
	if err != nil {
		return nil, err
	}
	fp, err := ValidateFingerprint(req.Fingerprint)
	if err != nil {
		return nil, err
	}
	return &ValidatedPayload{ItemID: id, Fingerprint: fp}, nil
}
