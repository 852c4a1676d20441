package app

import (
	"context"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pycompat/internal/core"
)

// Grid aggregates stored results and renders the dashboard grid to
// OutputPath, or to stdout when no path is given.
func (s Service) Grid(ctx context.Context, req GridRequest) (GridResult, error) {
	aggregated, err := s.Aggregate(ctx, AggregateRequest{
		PortfolioPath: req.PortfolioPath,
		Packages:      req.Packages,
		PyVersion:     req.PyVersion,
	})
	if err != nil {
		return GridResult{}, err
	}
	grid := core.BuildGrid(aggregated.Summaries, aggregated.PyVersion)

	out := os.Stdout
	if req.OutputPath != "" {
		file, err := os.Create(req.OutputPath)
		if err != nil {
			return GridResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create grid output file").
				WithCause(err)
		}
		defer file.Close()
		out = file
	}
	if err := s.GridWriter.WriteGrid(out, grid); err != nil {
		return GridResult{}, err
	}
	return GridResult{OutputPath: req.OutputPath, Packages: len(grid.Packages)}, nil
}
