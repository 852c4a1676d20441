package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pycompat/internal/app"
	"pycompat/internal/types"
)

type refreshOptions struct {
	Portfolio string
	Packages  []string
	Py        []string
	Workers   int
}

func newRefreshCommand() *cobra.Command {
	opts := refreshOptions{}
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run fresh compatibility checks and store the results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefresh(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Portfolio, "portfolio", "", "Portfolio yaml path")
	cmd.Flags().StringSliceVar(&opts.Packages, "package", nil, "Package install names (overrides portfolio)")
	cmd.Flags().StringSliceVar(&opts.Py, "py", nil, "Python versions to check (default 2 and 3)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Concurrent checker calls")
	_ = viper.BindPFlag("packages", cmd.Flags().Lookup("package"))
	_ = viper.BindPFlag("refresh_workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func runRefresh(ctx context.Context, cmd *cobra.Command, opts refreshOptions) error {
	service, closeService, err := newAppService(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	pyVersions, err := parsePyVersions(opts.Py)
	if err != nil {
		return err
	}
	result, err := service.Refresh(ctx, app.RefreshRequest{
		PortfolioPath: resolveString(cmd, opts.Portfolio, "portfolio", "portfolio"),
		Packages:      resolveStrings(cmd, opts.Packages, "packages", "package"),
		PyVersions:    pyVersions,
		Workers:       resolveInt(cmd, opts.Workers, "refresh_workers", "workers"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("refreshed %d packages: %d checks, %d failed\n", result.Packages, result.Checked, result.Failed)
	return nil
}

func parsePyVersions(values []string) ([]types.PyVersion, error) {
	versions := make([]types.PyVersion, 0, len(values))
	for _, value := range values {
		py := types.PyVersion(value)
		if !py.Valid() {
			return nil, invalidPyVersion(value)
		}
		versions = append(versions, py)
	}
	return versions, nil
}
