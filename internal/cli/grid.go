package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pycompat/internal/app"
	"pycompat/internal/types"
)

type gridOptions struct {
	Portfolio string
	Packages  []string
	Py        string
	Output    string
}

func newGridCommand() *cobra.Command {
	opts := gridOptions{}
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Render the HTML compatibility grid",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGrid(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Portfolio, "portfolio", "", "Portfolio yaml path")
	cmd.Flags().StringSliceVar(&opts.Packages, "package", nil, "Package install names (overrides portfolio)")
	cmd.Flags().StringVar(&opts.Py, "py", "3", "Python version")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Output HTML path (stdout when empty)")
	_ = viper.BindPFlag("packages", cmd.Flags().Lookup("package"))
	_ = viper.BindPFlag("grid_output", cmd.Flags().Lookup("output"))
	return cmd
}

func runGrid(ctx context.Context, cmd *cobra.Command, opts gridOptions) error {
	service, closeService, err := newAppService(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	py := types.PyVersion(opts.Py)
	if !py.Valid() {
		return invalidPyVersion(opts.Py)
	}
	result, err := service.Grid(ctx, app.GridRequest{
		PortfolioPath: resolveString(cmd, opts.Portfolio, "portfolio", "portfolio"),
		Packages:      resolveStrings(cmd, opts.Packages, "packages", "package"),
		PyVersion:     py,
		OutputPath:    resolveString(cmd, opts.Output, "grid_output", "output"),
	})
	if err != nil {
		return err
	}
	if result.OutputPath != "" {
		fmt.Printf("grid for %d packages written to %s\n", result.Packages, result.OutputPath)
	}
	return nil
}
