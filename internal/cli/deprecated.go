package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pycompat/internal/app"
)

type deprecatedOptions struct {
	Portfolio string
	Packages  []string
}

func newDeprecatedCommand() *cobra.Command {
	opts := deprecatedOptions{}
	cmd := &cobra.Command{
		Use:   "deprecated",
		Short: "List dependencies marked inactive on PyPI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeprecated(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Portfolio, "portfolio", "", "Portfolio yaml path")
	cmd.Flags().StringSliceVar(&opts.Packages, "package", nil, "Package install names (overrides portfolio)")
	_ = viper.BindPFlag("packages", cmd.Flags().Lookup("package"))
	return cmd
}

func runDeprecated(ctx context.Context, cmd *cobra.Command, opts deprecatedOptions) error {
	service, closeService, err := newAppService(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	result, err := service.Deprecated(ctx, app.DeprecatedRequest{
		PortfolioPath: resolveString(cmd, opts.Portfolio, "portfolio", "portfolio"),
		Packages:      resolveStrings(cmd, opts.Packages, "packages", "package"),
	})
	if err != nil {
		return err
	}
	packages := make([]string, 0, len(result.Deprecated))
	for pkg := range result.Deprecated {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)
	for _, pkg := range packages {
		deprecated := result.Deprecated[pkg]
		if len(deprecated) == 0 {
			fmt.Printf("%s: none\n", pkg)
			continue
		}
		fmt.Printf("%s: %s\n", pkg, strings.Join(deprecated, ", "))
	}
	return nil
}
