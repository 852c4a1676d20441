package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pycompat/internal/adapters"
	"pycompat/internal/types"
)

func TestDeprecatedFlagsInactiveDependencies(t *testing.T) {
	ctx := context.Background()
	store := adapters.NewStoreMemoryAdapter()
	require.NoError(t, store.PutDependencyEdges(ctx, []types.DependencyEdge{
		{Package: "beam", DepName: "six", InstalledVersion: "1.11.0"},
		{Package: "beam", DepName: "oauth2client", InstalledVersion: "4.1.2"},
		{Package: "beam", DepName: "gone-away", InstalledVersion: "0.1.0"},
	}))
	service := newTestService(store, newStubChecker())
	service.Registry = &stubRegistry{infos: map[string]types.ReleaseInfo{
		"six":          {Name: "six", DevelopmentStatus: "Development Status :: 5 - Production/Stable"},
		"oauth2client": {Name: "oauth2client", DevelopmentStatus: "Development Status :: 7 - Inactive"},
	}}

	result, err := service.Deprecated(ctx, DeprecatedRequest{Packages: []string{"beam"}})
	require.NoError(t, err)

	// Registry misses are skipped, not fatal.
	assert.Equal(t, []string{"oauth2client"}, result.Deprecated["beam"])
}

func TestDeprecatedNoneFlagged(t *testing.T) {
	ctx := context.Background()
	store := adapters.NewStoreMemoryAdapter()
	require.NoError(t, store.PutDependencyEdges(ctx, []types.DependencyEdge{
		{Package: "beam", DepName: "six", InstalledVersion: "1.11.0"},
	}))
	service := newTestService(store, newStubChecker())
	service.Registry = &stubRegistry{infos: map[string]types.ReleaseInfo{
		"six": {Name: "six", DevelopmentStatus: "Development Status :: 5 - Production/Stable"},
	}}

	result, err := service.Deprecated(ctx, DeprecatedRequest{Packages: []string{"beam"}})
	require.NoError(t, err)
	assert.Empty(t, result.Deprecated["beam"])
}
