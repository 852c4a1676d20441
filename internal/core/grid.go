package core

import (
	"sort"

	"pycompat/internal/types"
)

// BuildGrid arranges per-package summaries into the dashboard grid:
// packages sorted by name, self results on the diagonal, pairwise
// results in the lower triangle. A pairwise failure is flagged as a
// self issue when either side already fails its own self check, so the
// dashboard can avoid blaming the pairing for it.
func BuildGrid(summaries map[string]types.PackageSummary, py types.PyVersion) types.Grid {
	packages := make([]string, 0, len(summaries))
	for pkg := range summaries {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)

	grid := types.Grid{PyVersion: py, Packages: packages}
	for i, row := range packages {
		for _, column := range packages[:i+1] {
			grid.Cells = append(grid.Cells, buildCell(summaries, row, column))
		}
	}
	return grid
}

func buildCell(summaries map[string]types.PackageSummary, row string, column string) types.GridCell {
	rowSummary := summaries[row]
	if row == column {
		return types.GridCell{
			RowPackage:    row,
			ColumnPackage: column,
			Status:        rowSummary.SelfStatus,
			Details:       rowSummary.SelfDetails,
		}
	}
	cell := types.GridCell{
		RowPackage:    row,
		ColumnPackage: column,
		Status:        types.StatusUnknown,
	}
	for _, pair := range rowSummary.Pairs {
		if pair.Other != column {
			continue
		}
		cell.Status = pair.Status
		cell.Details = pair.Details
		break
	}
	if cell.Status.Failed() {
		columnSummary := summaries[column]
		cell.SelfIssue = rowSummary.SelfStatus.Failed() || columnSummary.SelfStatus.Failed()
	}
	return cell
}
