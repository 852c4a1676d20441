package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pycompat/internal/server"
)

type serveOptions struct {
	Addr      string
	Portfolio string
}

func newServeCommand() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve compatibility badges over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&opts.Portfolio, "portfolio", "", "Portfolio yaml path")
	_ = viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts serveOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, closeService, err := newAppService(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	cache, err := newBadgeCache(ctx)
	if err != nil {
		return err
	}
	srv := server.New(service, cache, resolveString(cmd, opts.Portfolio, "portfolio", "portfolio"))
	return srv.ListenAndServe(ctx, resolveString(cmd, opts.Addr, "addr", "addr"))
}
