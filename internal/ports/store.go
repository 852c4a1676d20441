package ports

import (
	"context"

	"pycompat/internal/types"
)

// StorePort is the row store holding compatibility results and
// dependency release-time snapshots. Writes are independent upserts
// with last-write-wins semantics per key; there are no transactional
// guarantees across keys. Readers treat any per-key failure as absent.
type StorePort interface {
	GetSelfStatus(ctx context.Context, installName string, py types.PyVersion) (types.CompatibilityResult, bool, error)
	GetPairwiseStatus(ctx context.Context, a string, b string, py types.PyVersion) (types.CompatibilityResult, bool, error)
	GetDependencyEdges(ctx context.Context, installName string) ([]types.DependencyEdge, error)
	ListPackages(ctx context.Context) ([]string, error)

	PutSelfStatus(ctx context.Context, result types.CompatibilityResult) error
	PutPairwiseStatus(ctx context.Context, result types.CompatibilityResult) error
	PutDependencyEdges(ctx context.Context, edges []types.DependencyEdge) error
}
