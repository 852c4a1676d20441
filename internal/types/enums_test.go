package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFailed(t *testing.T) {
	assert.True(t, StatusInstallError.Failed())
	assert.True(t, StatusCheckWarning.Failed())
	assert.True(t, StatusConflict.Failed())
	assert.False(t, StatusSuccess.Failed())
	assert.False(t, StatusUnknown.Failed())
	assert.False(t, Status("").Failed())
}

func TestStatusCombinePrecedence(t *testing.T) {
	// failure > unknown > success, in both directions
	assert.Equal(t, StatusCheckWarning, StatusSuccess.Combine(StatusCheckWarning))
	assert.Equal(t, StatusCheckWarning, StatusCheckWarning.Combine(StatusSuccess))
	assert.Equal(t, StatusUnknown, StatusSuccess.Combine(StatusUnknown))
	assert.Equal(t, StatusUnknown, StatusUnknown.Combine(StatusSuccess))
	assert.Equal(t, StatusInstallError, StatusUnknown.Combine(StatusInstallError))
	assert.Equal(t, StatusSuccess, StatusSuccess.Combine(StatusSuccess))

	// the first observed failure wins on equal rank
	assert.Equal(t, StatusInstallError, StatusInstallError.Combine(StatusCheckWarning))

	// zero value folds to unknown
	assert.Equal(t, StatusUnknown, Status("").Combine(StatusSuccess))

	// a status value this version does not know ranks like unknown:
	// it dominates success and yields to failures
	assert.Equal(t, Status("NEW_STATUS"), StatusSuccess.Combine(Status("NEW_STATUS")))
	assert.Equal(t, Status("NEW_STATUS"), Status("NEW_STATUS").Combine(StatusSuccess))
	assert.Equal(t, StatusConflict, Status("NEW_STATUS").Combine(StatusConflict))
}

func TestPyVersionHelpers(t *testing.T) {
	assert.Equal(t, PyVersion3, PyVersion("").OrDefault())
	assert.Equal(t, PyVersion2, PyVersion2.OrDefault())
	assert.True(t, PyVersion2.Valid())
	assert.True(t, PyVersion3.Valid())
	assert.False(t, PyVersion("4").Valid())
}

func TestCanonicalPair(t *testing.T) {
	lower, higher := CanonicalPair("six", "django")
	assert.Equal(t, "django", lower)
	assert.Equal(t, "six", higher)

	lower, higher = CanonicalPair("django", "six")
	assert.Equal(t, "django", lower)
	assert.Equal(t, "six", higher)
}
