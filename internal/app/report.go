package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"pycompat/internal/core"
	"pycompat/internal/policies"
	"pycompat/internal/types"
)

// Report classifies the update priority of every dependency of the
// tracked packages. Stored release-time snapshots are preferred; a
// package with no stored rows falls back to a live self check.
func (s Service) Report(ctx context.Context, req ReportRequest) (ReportResult, error) {
	packages, portfolio, err := s.resolvePortfolio(req.PortfolioPath, req.Packages)
	if err != nil {
		return ReportResult{}, err
	}
	filter := policies.NewDependencyFilter(portfolio)
	classifier := core.NewPriorityClassifier()
	now := s.Clock()

	verdicts := make(map[string][]types.PriorityVerdict, len(packages))
	for _, pkg := range packages {
		edges, err := s.dependencyEdges(ctx, pkg)
		if err != nil {
			return ReportResult{}, err
		}
		classified := classifier.ClassifyEdges(filter.Filter(edges), now)
		if req.OutdatedOnly {
			classified = outdatedOnly(classified)
		}
		verdicts[pkg] = classified
	}
	return ReportResult{Verdicts: verdicts}, nil
}

// dependencyEdges reads the stored release-time rows for a package,
// running a live self check when the store has none.
func (s Service) dependencyEdges(ctx context.Context, pkg string) ([]types.DependencyEdge, error) {
	edges, err := s.Store.GetDependencyEdges(ctx, pkg)
	if err != nil {
		return nil, err
	}
	if len(edges) > 0 {
		return edges, nil
	}
	log.Debug().Str("package", pkg).Msg("no stored dependency rows, running live check")
	check, err := s.Checker.Check(ctx, []string{pkg}, types.PyVersion3)
	if err != nil {
		return nil, err
	}
	return check.Edges(pkg), nil
}

func outdatedOnly(verdicts []types.PriorityVerdict) []types.PriorityVerdict {
	kept := verdicts[:0]
	for _, verdict := range verdicts {
		if verdict.Outdated() {
			kept = append(kept, verdict)
		}
	}
	return kept
}
