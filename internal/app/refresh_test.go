package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pycompat/internal/adapters"
	"pycompat/internal/types"
)

func selfCheckResult(pkg string, ownVersion string, deps map[string]string) types.CheckResult {
	info := map[string]types.DependencyInfo{
		pkg: {InstalledVersion: ownVersion, IsLatest: true, CurrentTime: testNow},
	}
	for dep, version := range deps {
		info[dep] = types.DependencyInfo{
			InstalledVersion: version,
			LatestVersion:    version,
			IsLatest:         true,
			CurrentTime:      testNow,
		}
	}
	return types.CheckResult{
		Result:         types.StatusSuccess,
		Packages:       []string{pkg},
		DependencyInfo: info,
	}
}

func TestRefreshStoresAllResults(t *testing.T) {
	ctx := context.Background()
	store := adapters.NewStoreMemoryAdapter()
	checker := newStubChecker()
	service := newTestService(store, checker)

	result, err := service.Refresh(ctx, RefreshRequest{
		Packages: []string{"six", "django"},
	})
	require.NoError(t, err)

	// 2 self checks + 1 pairwise check, for both python versions.
	assert.Equal(t, 2, result.Packages)
	assert.Equal(t, 6, result.Checked)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 6, checker.callCount())

	for _, py := range types.AllPyVersions {
		for _, pkg := range []string{"six", "django"} {
			row, found, err := store.GetSelfStatus(ctx, pkg, py)
			require.NoError(t, err)
			require.True(t, found, "%s py%s", pkg, py)
			assert.Equal(t, types.StatusSuccess, row.Status)
			assert.Equal(t, testNow, row.Timestamp)
		}
		row, found, err := store.GetPairwiseStatus(ctx, "django", "six", py)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, types.StatusSuccess, row.Status)
	}
}

func TestRefreshCheckerFailureIsUnknown(t *testing.T) {
	ctx := context.Background()
	store := adapters.NewStoreMemoryAdapter()
	checker := newStubChecker()
	checker.failOn([]string{"six"}, types.PyVersion3, errors.New("checker timeout"))
	service := newTestService(store, checker)

	result, err := service.Refresh(ctx, RefreshRequest{
		Packages:   []string{"six"},
		PyVersions: []types.PyVersion{types.PyVersion3},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	row, found, err := store.GetSelfStatus(ctx, "six", types.PyVersion3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, types.StatusUnknown, row.Status)
	assert.Contains(t, row.Details, "checker timeout")
}

func TestRefreshConflictStored(t *testing.T) {
	ctx := context.Background()
	store := adapters.NewStoreMemoryAdapter()
	checker := newStubChecker()
	checker.on([]string{"six", "django"}, types.PyVersion3, types.CheckResult{
		Result:      types.StatusCheckWarning,
		Packages:    []string{"six", "django"},
		Description: "pip resolution conflict",
	})
	service := newTestService(store, checker)

	_, err := service.Refresh(ctx, RefreshRequest{
		Packages:   []string{"six", "django"},
		PyVersions: []types.PyVersion{types.PyVersion3},
	})
	require.NoError(t, err)

	row, found, err := store.GetPairwiseStatus(ctx, "six", "django", types.PyVersion3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, types.StatusCheckWarning, row.Status)
	assert.Equal(t, "pip resolution conflict", row.Details)
}

func TestRefreshHighestVersionWinsForEdges(t *testing.T) {
	ctx := context.Background()
	store := adapters.NewStoreMemoryAdapter()
	checker := newStubChecker()
	// The python 2 environment resolves an older release of the package
	// than python 3; the dependency snapshot must come from the newer
	// install.
	checker.on([]string{"beam"}, types.PyVersion2, selfCheckResult("beam", "2.3.0", map[string]string{"six": "1.10.0"}))
	checker.on([]string{"beam"}, types.PyVersion3, selfCheckResult("beam", "2.4.0", map[string]string{"six": "1.11.0"}))
	service := newTestService(store, checker)

	_, err := service.Refresh(ctx, RefreshRequest{Packages: []string{"beam"}})
	require.NoError(t, err)

	edges, err := store.GetDependencyEdges(ctx, "beam")
	require.NoError(t, err)
	require.Len(t, edges, 2)
	byDep := map[string]types.DependencyEdge{}
	for _, edge := range edges {
		byDep[edge.DepName] = edge
	}
	assert.Equal(t, "1.11.0", byDep["six"].InstalledVersion)
	assert.Equal(t, "2.4.0", byDep["beam"].InstalledVersion)
}

func TestRefreshPortfolioDrivesPackages(t *testing.T) {
	ctx := context.Background()
	store := adapters.NewStoreMemoryAdapter()
	checker := newStubChecker()
	service := newTestService(store, checker)
	service.Portfolio = stubPortfolio{portfolio: types.Portfolio{
		Metadata: types.PortfolioMetadata{Name: "test"},
		Packages: []string{"six"},
	}}

	result, err := service.Refresh(ctx, RefreshRequest{
		PortfolioPath: "portfolio.yaml",
		PyVersions:    []types.PyVersion{types.PyVersion3},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Packages)
	assert.Equal(t, 1, result.Checked)
}

func TestRefreshNoPackages(t *testing.T) {
	service := newTestService(adapters.NewStoreMemoryAdapter(), newStubChecker())
	_, err := service.Refresh(context.Background(), RefreshRequest{})
	require.Error(t, err)
}

func TestRefreshWorkerCap(t *testing.T) {
	// A worker count above the task count must not deadlock.
	store := adapters.NewStoreMemoryAdapter()
	checker := newStubChecker()
	service := newTestService(store, checker)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = service.Refresh(context.Background(), RefreshRequest{
			Packages:   []string{"six"},
			PyVersions: []types.PyVersion{types.PyVersion3},
			Workers:    64,
		})
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not finish")
	}
}
