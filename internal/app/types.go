package app

import "pycompat/internal/types"

type RefreshRequest struct {
	PortfolioPath string
	Packages      []string
	PyVersions    []types.PyVersion
	Workers       int
}

type RefreshResult struct {
	Packages int
	Checked  int
	Failed   int
}

type AggregateRequest struct {
	PortfolioPath string
	Packages      []string
	PyVersion     types.PyVersion
}

type AggregateResult struct {
	PyVersion types.PyVersion
	Summaries map[string]types.PackageSummary
}

type ReportRequest struct {
	PortfolioPath string
	Packages      []string

	// OutdatedOnly drops up-to-date verdicts from the result.
	OutdatedOnly bool
}

type ReportResult struct {
	Verdicts map[string][]types.PriorityVerdict
}

type DeprecatedRequest struct {
	PortfolioPath string
	Packages      []string
}

type DeprecatedResult struct {
	// Deprecated maps a package to the dependencies whose registry
	// development status marks them inactive.
	Deprecated map[string][]string
}

type GridRequest struct {
	PortfolioPath string
	Packages      []string
	PyVersion     types.PyVersion
	OutputPath    string
}

type GridResult struct {
	OutputPath string
	Packages   int
}
