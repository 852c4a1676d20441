package app

import (
	"context"

	"pycompat/internal/core"
)

// Aggregate folds the stored self and pairwise rows for the tracked
// packages into one summary per package.
func (s Service) Aggregate(ctx context.Context, req AggregateRequest) (AggregateResult, error) {
	packages, _, err := s.resolvePortfolio(req.PortfolioPath, req.Packages)
	if err != nil {
		return AggregateResult{}, err
	}
	py := req.PyVersion.OrDefault()
	summaries := core.NewAggregator(s.Store).Aggregate(ctx, packages, py)
	return AggregateResult{PyVersion: py, Summaries: summaries}, nil
}
