//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"pycompat/internal/adapters"
	"pycompat/internal/types"
	"pycompat/tests/testutil"
)

func startPostgres(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "pycompat",
			"POSTGRES_PASSWORD": "pycompat",
			"POSTGRES_DB":       "pycompat",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://pycompat:pycompat@%s:%s/pycompat?sslmode=disable", host, port.Port())
	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return dsn, cleanup
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers test in short mode")
	}

	ctx := t.Context()
	dsn, cleanup := startPostgres(ctx, t)
	t.Cleanup(cleanup)

	db, err := adapters.OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := adapters.NewStorePostgresAdapter(db)
	require.NoError(t, store.EnsureSchema(ctx))
	// Idempotent.
	require.NoError(t, store.EnsureSchema(ctx))

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	// Self status upsert and read back.
	require.NoError(t, store.PutSelfStatus(ctx, types.CompatibilityResult{
		Packages:  []string{"six"},
		PyVersion: types.PyVersion3,
		Status:    types.StatusInstallError,
		Details:   "first write",
		Timestamp: now,
	}))
	require.NoError(t, store.PutSelfStatus(ctx, types.CompatibilityResult{
		Packages:  []string{"six"},
		PyVersion: types.PyVersion3,
		Status:    types.StatusSuccess,
		Timestamp: now.Add(time.Hour),
	}))
	row, found, err := store.GetSelfStatus(ctx, "six", types.PyVersion3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, types.StatusSuccess, row.Status)

	_, found, err = store.GetSelfStatus(ctx, "six", types.PyVersion2)
	require.NoError(t, err)
	assert.False(t, found)

	// Pairwise rows are keyed canonically.
	require.NoError(t, store.PutPairwiseStatus(ctx, types.CompatibilityResult{
		Packages:  []string{"six", "django"},
		PyVersion: types.PyVersion3,
		Status:    types.StatusCheckWarning,
		Details:   "pip conflict",
		Timestamp: now,
	}))
	pair, found, err := store.GetPairwiseStatus(ctx, "django", "six", types.PyVersion3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, types.StatusCheckWarning, pair.Status)
	assert.Equal(t, "pip conflict", pair.Details)

	// Dependency edges, including a nullable release time.
	require.NoError(t, store.PutDependencyEdges(ctx, []types.DependencyEdge{
		{
			Package:           "six",
			DepName:           "setuptools",
			InstalledVersion:  "40.0.0",
			LatestVersion:     "41.0.0",
			LatestVersionTime: testutil.TimePtr(now.Add(-time.Hour)),
			Timestamp:         now,
		},
		{
			Package:          "six",
			DepName:          "wheel",
			InstalledVersion: "0.31.0",
			LatestVersion:    "0.31.0",
			IsLatest:         true,
			Timestamp:        now,
		},
	}))
	edges, err := store.GetDependencyEdges(ctx, "six")
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "setuptools", edges[0].DepName)
	require.NotNil(t, edges[0].LatestVersionTime)
	assert.Nil(t, edges[1].LatestVersionTime)
	assert.True(t, edges[1].IsLatest)

	names, err := store.ListPackages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"six"}, names)
}
