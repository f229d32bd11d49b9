package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emt/internal/models"
)

func assertValidationKind(t *testing.T, err error, kind models.ValidationKind) {
	t.Helper()
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, kind, ve.Kind)
}

func TestValidateFingerprint_Normalizes(t *testing.T) {
	fp, err := ValidateFingerprint("  abc123  ")
	require.NoError(t, err)
	assert.Equal(t, "abc123", fp)
}

func TestValidateFingerprint_Missing(t *testing.T) {
	_, err := ValidateFingerprint("")
	assertValidationKind(t, err, models.MissingFingerprint)

	_, err = ValidateFingerprint("   ")
	assertValidationKind(t, err, models.MissingFingerprint)
}

func TestValidateFingerprint_TooLong(t *testing.T) {
	_, err := ValidateFingerprint(strings.Repeat("x", maxFingerprintLen+1))
	assertValidationKind(t, err, models.MissingFingerprint)
}

func TestValidateItemID_Normalizes(t *testing.T) {
	id, err := ValidateItemID("  My-Guide-01  ")
	require.NoError(t, err)
	assert.Equal(t, "my-guide-01", id)
}

func TestValidateItemID_Invalid(t *testing.T) {
	for _, bad := range []string{"", "has space", "unicode-é", "-leading", "trailing-", "a--b", strings.Repeat("x", maxItemIDLen+1)} {
		_, err := ValidateItemID(bad)
		assertValidationKind(t, err, models.InvalidItemID)
	}
}

func TestValidateDwellTime_Absent(t *testing.T) {
	seconds, has, err := ValidateDwellTime(nil)
	require.NoError(t, err)
	assert.False(t, has)
	assert.Zero(t, seconds)
}

func TestValidateDwellTime_Numeric(t *testing.T) {
	seconds, has, err := ValidateDwellTime(12.5)
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, 12.5, seconds)

	// JSON clients sometimes send numbers as strings.
	seconds, has, err = ValidateDwellTime("42")
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, 42.0, seconds)
}

func TestValidateDwellTime_Invalid(t *testing.T) {
	_, _, err := ValidateDwellTime("not a number")
	assertValidationKind(t, err, models.InvalidDwellTime)

	_, _, err = ValidateDwellTime(-1)
	assertValidationKind(t, err, models.InvalidDwellTime)

	_, _, err = ValidateDwellTime(float64(maxDwellSeconds + 1))
	assertValidationKind(t, err, models.InvalidDwellTime)
}

func TestValidateTrackView(t *testing.T) {
	payload, err := ValidateTrackView(&models.TrackViewRequest{
		ItemID:      "Guide-One",
		Fingerprint: " fp1 ",
		DwellTime:   30,
	})
	require.NoError(t, err)
	assert.Equal(t, "guide-one", payload.ItemID)
	assert.Equal(t, "fp1", payload.Fingerprint)
	assert.True(t, payload.HasDwell)
	assert.Equal(t, 30.0, payload.DwellTime)
}

func TestValidateVote_KindChecked(t *testing.T) {
	_, err := ValidateVote(&models.VoteRequest{
		ItemID:      "guide-one",
		Fingerprint: "fp1",
		Vote:        "upvote",
	})
	assertValidationKind(t, err, models.InvalidVoteKind)
}

func TestValidateSave(t *testing.T) {
	payload, err := ValidateSave(&models.SaveRequest{ItemID: "guide-one", Fingerprint: "fp1"})
	require.NoError(t, err)
	assert.Equal(t, "guide-one", payload.ItemID)
}
