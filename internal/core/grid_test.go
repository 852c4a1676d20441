package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pycompat/internal/types"
)

func gridSummaries() map[string]types.PackageSummary {
	return map[string]types.PackageSummary{
		"six": {
			Package:    "six",
			SelfStatus: types.StatusSuccess,
			Pairs: []types.PairStatus{
				{Other: "django", Status: types.StatusSuccess},
				{Other: "tensorflow", Status: types.StatusCheckWarning, Details: "pip conflict"},
			},
		},
		"django": {
			Package:    "django",
			SelfStatus: types.StatusSuccess,
			Pairs: []types.PairStatus{
				{Other: "six", Status: types.StatusSuccess},
				{Other: "tensorflow", Status: types.StatusInstallError},
			},
		},
		"tensorflow": {
			Package:     "tensorflow",
			SelfStatus:  types.StatusInstallError,
			SelfDetails: "install failed",
			Pairs: []types.PairStatus{
				{Other: "six", Status: types.StatusCheckWarning, Details: "pip conflict"},
				{Other: "django", Status: types.StatusInstallError},
			},
		},
	}
}

func cellAt(t *testing.T, grid types.Grid, row string, column string) types.GridCell {
	t.Helper()
	for _, cell := range grid.Cells {
		if cell.RowPackage == row && cell.ColumnPackage == column {
			return cell
		}
	}
	t.Fatalf("no cell for %s/%s", row, column)
	return types.GridCell{}
}

func TestBuildGridLayout(t *testing.T) {
	grid := BuildGrid(gridSummaries(), types.PyVersion3)

	assert.Equal(t, []string{"django", "six", "tensorflow"}, grid.Packages)
	// Lower triangle plus diagonal.
	require.Len(t, grid.Cells, 6)
	for _, cell := range grid.Cells {
		assert.LessOrEqual(t, cell.ColumnPackage, cell.RowPackage)
	}
}

func TestBuildGridDiagonalIsSelf(t *testing.T) {
	grid := BuildGrid(gridSummaries(), types.PyVersion3)
	cell := cellAt(t, grid, "tensorflow", "tensorflow")
	assert.Equal(t, types.StatusInstallError, cell.Status)
	assert.Equal(t, "install failed", cell.Details)
	assert.False(t, cell.SelfIssue)
}

func TestBuildGridSelfIssueMasking(t *testing.T) {
	grid := BuildGrid(gridSummaries(), types.PyVersion3)

	// tensorflow fails its own check, so its pairwise failures are
	// attributed to the package, not the pairing.
	cell := cellAt(t, grid, "tensorflow", "six")
	assert.Equal(t, types.StatusCheckWarning, cell.Status)
	assert.True(t, cell.SelfIssue)

	// A pairwise success between self-compatible packages stays clean.
	cell = cellAt(t, grid, "six", "django")
	assert.Equal(t, types.StatusSuccess, cell.Status)
	assert.False(t, cell.SelfIssue)
}

func TestBuildGridMissingPairIsUnknown(t *testing.T) {
	summaries := map[string]types.PackageSummary{
		"a": {Package: "a", SelfStatus: types.StatusSuccess},
		"b": {Package: "b", SelfStatus: types.StatusSuccess},
	}
	grid := BuildGrid(summaries, types.PyVersion2)
	cell := cellAt(t, grid, "b", "a")
	assert.Equal(t, types.StatusUnknown, cell.Status)
	assert.False(t, cell.SelfIssue)
}
