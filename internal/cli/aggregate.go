package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pycompat/internal/app"
	"pycompat/internal/types"
)

type aggregateOptions struct {
	Portfolio string
	Packages  []string
	Py        string
}

func newAggregateCommand() *cobra.Command {
	opts := aggregateOptions{}
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Summarize stored self and pairwise results per package",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAggregate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Portfolio, "portfolio", "", "Portfolio yaml path")
	cmd.Flags().StringSliceVar(&opts.Packages, "package", nil, "Package install names (overrides portfolio)")
	cmd.Flags().StringVar(&opts.Py, "py", "3", "Python version")
	_ = viper.BindPFlag("packages", cmd.Flags().Lookup("package"))
	return cmd
}

func runAggregate(ctx context.Context, cmd *cobra.Command, opts aggregateOptions) error {
	service, closeService, err := newAppService(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	py := types.PyVersion(opts.Py)
	if !py.Valid() {
		return invalidPyVersion(opts.Py)
	}
	result, err := service.Aggregate(ctx, app.AggregateRequest{
		PortfolioPath: resolveString(cmd, opts.Portfolio, "portfolio", "portfolio"),
		Packages:      resolveStrings(cmd, opts.Packages, "packages", "package"),
		PyVersion:     py,
	})
	if err != nil {
		return err
	}
	packages := make([]string, 0, len(result.Summaries))
	for pkg := range result.Summaries {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)
	for _, pkg := range packages {
		summary := result.Summaries[pkg]
		fmt.Printf("%-30s %s (self: %s)\n", pkg, summary.Status, summary.SelfStatus)
	}
	return nil
}
