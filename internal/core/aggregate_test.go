package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pycompat/internal/adapters"
	"pycompat/internal/types"
)

func seedSelf(t *testing.T, store *adapters.StoreMemoryAdapter, pkg string, status types.Status) {
	t.Helper()
	err := store.PutSelfStatus(context.Background(), types.CompatibilityResult{
		Packages:  []string{pkg},
		PyVersion: types.PyVersion3,
		Status:    status,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
}

func seedPair(t *testing.T, store *adapters.StoreMemoryAdapter, a string, b string, status types.Status, details string) {
	t.Helper()
	err := store.PutPairwiseStatus(context.Background(), types.CompatibilityResult{
		Packages:  []string{a, b},
		PyVersion: types.PyVersion3,
		Status:    status,
		Details:   details,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
}

// ---------------------------------------------------------------------------
// Aggregator.Aggregate
// ---------------------------------------------------------------------------

func TestAggregateAllCompatible(t *testing.T) {
	store := adapters.NewStoreMemoryAdapter()
	seedSelf(t, store, "six", types.StatusSuccess)
	seedSelf(t, store, "django", types.StatusSuccess)
	seedPair(t, store, "six", "django", types.StatusSuccess, "")

	summaries := NewAggregator(store).Aggregate(context.Background(), []string{"six", "django"}, types.PyVersion3)
	require.Len(t, summaries, 2)
	assert.Equal(t, types.StatusSuccess, summaries["six"].Status)
	assert.Equal(t, types.StatusSuccess, summaries["django"].Status)
}

func TestAggregateMissingPairwiseIsUnknown(t *testing.T) {
	store := adapters.NewStoreMemoryAdapter()
	seedSelf(t, store, "six", types.StatusSuccess)
	seedSelf(t, store, "django", types.StatusSuccess)

	summaries := NewAggregator(store).Aggregate(context.Background(), []string{"six", "django"}, types.PyVersion3)
	assert.Equal(t, types.StatusUnknown, summaries["six"].Status)
	assert.Equal(t, types.StatusSuccess, summaries["six"].SelfStatus)
}

func TestAggregatePairwiseConflictDominates(t *testing.T) {
	store := adapters.NewStoreMemoryAdapter()
	seedSelf(t, store, "six", types.StatusSuccess)
	seedSelf(t, store, "django", types.StatusSuccess)
	seedSelf(t, store, "apache-beam", types.StatusSuccess)
	seedPair(t, store, "six", "django", types.StatusSuccess, "")
	seedPair(t, store, "six", "apache-beam", types.StatusSuccess, "")
	seedPair(t, store, "django", "apache-beam", types.StatusCheckWarning, "pip resolution conflict")

	summaries := NewAggregator(store).Aggregate(context.Background(), []string{"six", "django", "apache-beam"}, types.PyVersion3)
	assert.Equal(t, types.StatusSuccess, summaries["six"].Status)
	assert.Equal(t, types.StatusCheckWarning, summaries["django"].Status)
	assert.Equal(t, types.StatusCheckWarning, summaries["apache-beam"].Status)
}

func TestAggregateCommutative(t *testing.T) {
	store := adapters.NewStoreMemoryAdapter()
	seedSelf(t, store, "six", types.StatusSuccess)
	seedSelf(t, store, "django", types.StatusInstallError)
	seedPair(t, store, "django", "six", types.StatusSuccess, "")

	forward := NewAggregator(store).Aggregate(context.Background(), []string{"six", "django"}, types.PyVersion3)
	reversed := NewAggregator(store).Aggregate(context.Background(), []string{"django", "six"}, types.PyVersion3)
	if diff := cmp.Diff(forward, reversed); diff != "" {
		t.Fatalf("aggregation depends on input order:\n%s", diff)
	}
}

func TestAggregatePairsSorted(t *testing.T) {
	store := adapters.NewStoreMemoryAdapter()
	for _, pkg := range []string{"zope", "alpha", "middle"} {
		seedSelf(t, store, pkg, types.StatusSuccess)
	}
	summaries := NewAggregator(store).Aggregate(context.Background(), []string{"zope", "alpha", "middle"}, types.PyVersion3)
	pairs := summaries["middle"].Pairs
	require.Len(t, pairs, 2)
	assert.Equal(t, "alpha", pairs[0].Other)
	assert.Equal(t, "zope", pairs[1].Other)
}

// failingStore errors on every read to exercise the degrade-to-absent
// path.
type failingStore struct {
	*adapters.StoreMemoryAdapter
}

func (f failingStore) GetSelfStatus(context.Context, string, types.PyVersion) (types.CompatibilityResult, bool, error) {
	return types.CompatibilityResult{}, false, errors.New("connection refused")
}

func (f failingStore) GetPairwiseStatus(context.Context, string, string, types.PyVersion) (types.CompatibilityResult, bool, error) {
	return types.CompatibilityResult{}, false, errors.New("connection refused")
}

func TestAggregateReadFailuresDegradeToUnknown(t *testing.T) {
	store := failingStore{adapters.NewStoreMemoryAdapter()}
	summaries := NewAggregator(store).Aggregate(context.Background(), []string{"six", "django"}, types.PyVersion3)
	require.Len(t, summaries, 2)
	for _, summary := range summaries {
		assert.Equal(t, types.StatusUnknown, summary.Status)
		assert.Equal(t, types.StatusUnknown, summary.SelfStatus)
		for _, pair := range summary.Pairs {
			assert.Equal(t, types.StatusUnknown, pair.Status)
		}
	}
}
