package adapters

import (
	"context"
	"sort"
	"sync"

	"pycompat/internal/types"
)

type selfKey struct {
	name string
	py   types.PyVersion
}

type pairKey struct {
	lower  string
	higher string
	py     types.PyVersion
}

type edgeKey struct {
	pkg string
	dep string
}

// StoreMemoryAdapter is a map-backed store with the same key shapes as
// the warehouse tables. It backs tests and `--store memory` runs where
// no database is available. Writes are last-write-wins per key.
type StoreMemoryAdapter struct {
	mu    sync.RWMutex
	self  map[selfKey]types.CompatibilityResult
	pair  map[pairKey]types.CompatibilityResult
	edges map[edgeKey]types.DependencyEdge
}

func NewStoreMemoryAdapter() *StoreMemoryAdapter {
	return &StoreMemoryAdapter{
		self:  map[selfKey]types.CompatibilityResult{},
		pair:  map[pairKey]types.CompatibilityResult{},
		edges: map[edgeKey]types.DependencyEdge{},
	}
}

func (s *StoreMemoryAdapter) GetSelfStatus(_ context.Context, installName string, py types.PyVersion) (types.CompatibilityResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.self[selfKey{name: installName, py: py}]
	return result, ok, nil
}

func (s *StoreMemoryAdapter) GetPairwiseStatus(_ context.Context, a string, b string, py types.PyVersion) (types.CompatibilityResult, bool, error) {
	lower, higher := types.CanonicalPair(a, b)
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.pair[pairKey{lower: lower, higher: higher, py: py}]
	return result, ok, nil
}

func (s *StoreMemoryAdapter) GetDependencyEdges(_ context.Context, installName string) ([]types.DependencyEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var edges []types.DependencyEdge
	for key, edge := range s.edges {
		if key.pkg == installName {
			edges = append(edges, edge)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].DepName < edges[j].DepName
	})
	return edges, nil
}

func (s *StoreMemoryAdapter) ListPackages(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]struct{}{}
	for key := range s.self {
		seen[key.name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *StoreMemoryAdapter) PutSelfStatus(_ context.Context, result types.CompatibilityResult) error {
	if err := validateSelfResult(result); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.self[selfKey{name: result.Packages[0], py: result.PyVersion}] = result
	return nil
}

func (s *StoreMemoryAdapter) PutPairwiseStatus(_ context.Context, result types.CompatibilityResult) error {
	if err := validatePairResult(result); err != nil {
		return err
	}
	names := result.SortedCopy()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair[pairKey{lower: names[0], higher: names[1], py: result.PyVersion}] = result
	return nil
}

func (s *StoreMemoryAdapter) PutDependencyEdges(_ context.Context, edges []types.DependencyEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, edge := range edges {
		s.edges[edgeKey{pkg: edge.Package, dep: edge.DepName}] = edge
	}
	return nil
}
