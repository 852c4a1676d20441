package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pycompat/internal/app"
	"pycompat/internal/types"
)

type reportOptions struct {
	Portfolio    string
	Packages     []string
	OutdatedOnly bool
}

func newReportCommand() *cobra.Command {
	opts := reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Classify dependency update priority per package",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Portfolio, "portfolio", "", "Portfolio yaml path")
	cmd.Flags().StringSliceVar(&opts.Packages, "package", nil, "Package install names (overrides portfolio)")
	cmd.Flags().BoolVar(&opts.OutdatedOnly, "outdated-only", false, "Hide up-to-date dependencies")
	_ = viper.BindPFlag("packages", cmd.Flags().Lookup("package"))
	return cmd
}

func runReport(ctx context.Context, cmd *cobra.Command, opts reportOptions) error {
	service, closeService, err := newAppService(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	result, err := service.Report(ctx, app.ReportRequest{
		PortfolioPath: resolveString(cmd, opts.Portfolio, "portfolio", "portfolio"),
		Packages:      resolveStrings(cmd, opts.Packages, "packages", "package"),
		OutdatedOnly:  opts.OutdatedOnly,
	})
	if err != nil {
		return err
	}
	printReport(result)
	return nil
}

func printReport(result app.ReportResult) {
	packages := make([]string, 0, len(result.Verdicts))
	for pkg := range result.Verdicts {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)
	for _, pkg := range packages {
		fmt.Printf("%s:\n", pkg)
		for _, verdict := range result.Verdicts[pkg] {
			fmt.Printf("  %-30s %s -> %s  [%s] %s\n",
				verdict.Edge.DepName,
				verdict.Edge.InstalledVersion,
				verdict.Edge.LatestVersion,
				verdict.Level,
				strings.Join(verdict.Reasons, ", "))
		}
	}
}

func invalidPyVersion(value string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid python version %q: expected %s or %s", value, types.PyVersion2, types.PyVersion3))
}
