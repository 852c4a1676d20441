package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pycompat/internal/adapters"
	"pycompat/internal/app"
	"pycompat/internal/ports"
)

// newAppService wires the store and checker from resolved config. An
// empty database URL selects the in-memory store, which is only useful
// for single-run commands against a live checker.
func newAppService(ctx context.Context) (app.Service, func(), error) {
	checker := adapters.NewCheckerHTTPAdapter(
		viper.GetString("checker_endpoint"),
		viper.GetInt("checker_timeout_sec"),
		viper.GetInt("checker_retries"),
		viper.GetInt("checker_retry_delay_ms"),
	)
	databaseURL := strings.TrimSpace(viper.GetString("database_url"))
	if databaseURL == "" {
		return app.NewService(adapters.NewStoreMemoryAdapter(), checker), func() {}, nil
	}
	db, err := adapters.OpenPostgres(ctx, databaseURL)
	if err != nil {
		return app.Service{}, nil, err
	}
	store := adapters.NewStorePostgresAdapter(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return app.Service{}, nil, err
	}
	service := app.NewService(store, checker)
	if endpoint := viper.GetString("pypi_endpoint"); endpoint != "" {
		service.Registry = adapters.NewRegistryPyPIAdapter(endpoint, 0)
	}
	return service, func() { _ = db.Close() }, nil
}

// newBadgeCache selects redis when an address is configured, falling
// back to the in-process cache.
func newBadgeCache(ctx context.Context) (ports.BadgeCachePort, error) {
	addr := strings.TrimSpace(viper.GetString("redis_addr"))
	if addr == "" {
		return adapters.NewCacheMemoryAdapter(), nil
	}
	return adapters.NewCacheRedisAdapter(ctx, addr, viper.GetString("redis_password"), viper.GetInt("redis_db"))
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
