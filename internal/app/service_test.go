package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pycompat/internal/adapters"
	"pycompat/internal/types"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// stubChecker serves canned results keyed by package set and python
// version, recording every request it sees.
type stubChecker struct {
	mu      sync.Mutex
	results map[string]types.CheckResult
	errs    map[string]error
	calls   []string
}

func newStubChecker() *stubChecker {
	return &stubChecker{
		results: map[string]types.CheckResult{},
		errs:    map[string]error{},
	}
}

func checkKey(packages []string, py types.PyVersion) string {
	sorted := append([]string(nil), packages...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return strings.Join(sorted, "+") + ":" + string(py)
}

func (c *stubChecker) on(packages []string, py types.PyVersion, result types.CheckResult) {
	c.results[checkKey(packages, py)] = result
}

func (c *stubChecker) failOn(packages []string, py types.PyVersion, err error) {
	c.errs[checkKey(packages, py)] = err
}

func (c *stubChecker) Check(_ context.Context, packages []string, py types.PyVersion) (types.CheckResult, error) {
	key := checkKey(packages, py)
	c.mu.Lock()
	c.calls = append(c.calls, key)
	c.mu.Unlock()
	if err, ok := c.errs[key]; ok {
		return types.CheckResult{}, err
	}
	if result, ok := c.results[key]; ok {
		return result, nil
	}
	return types.CheckResult{
		Result:   types.StatusSuccess,
		Packages: packages,
	}, nil
}

func (c *stubChecker) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// stubRegistry serves canned release metadata.
type stubRegistry struct {
	infos map[string]types.ReleaseInfo
}

func (r *stubRegistry) ReleaseInfo(_ context.Context, name string) (types.ReleaseInfo, error) {
	info, ok := r.infos[name]
	if !ok {
		return types.ReleaseInfo{}, errors.New("not found: " + name)
	}
	return info, nil
}

// stubPortfolio returns a fixed portfolio for any path.
type stubPortfolio struct {
	portfolio types.Portfolio
}

func (p stubPortfolio) Load(string) (types.Portfolio, error) {
	return p.portfolio, nil
}

func newTestService(store *adapters.StoreMemoryAdapter, checker *stubChecker) Service {
	service := NewService(store, checker)
	service.Clock = func() time.Time { return testNow }
	return service
}
