package policies

import (
	"strings"

	"pycompat/internal/shared"
	"pycompat/internal/types"
)

// DefaultIgnoredDependencies are never direct pip-installed
// dependencies and would otherwise produce unresolvable high-priority
// warnings on every report.
var DefaultIgnoredDependencies = []string{
	"pip",
	"setuptools",
	"wheel",
	"virtualenv",
}

// DependencyFilter drops ignored dependency edges before priority
// classification and resolves git install URLs to their released
// display name.
type DependencyFilter struct {
	ignored   map[string]struct{}
	allowlist map[string]string
}

func NewDependencyFilter(portfolio types.Portfolio) DependencyFilter {
	filter := DependencyFilter{
		ignored:   map[string]struct{}{},
		allowlist: portfolio.AllowlistURLs,
	}
	for _, name := range DefaultIgnoredDependencies {
		filter.ignored[shared.NormalizePipName(name)] = struct{}{}
	}
	for _, name := range portfolio.IgnoredDependencies {
		filter.ignored[shared.NormalizePipName(name)] = struct{}{}
	}
	return filter
}

// Ignored reports whether the dependency name is excluded from
// classification.
func (f DependencyFilter) Ignored(name string) bool {
	_, ok := f.ignored[shared.NormalizePipName(name)]
	return ok
}

// Filter returns the edges whose dependency is not ignored, preserving
// order.
func (f DependencyFilter) Filter(edges []types.DependencyEdge) []types.DependencyEdge {
	kept := make([]types.DependencyEdge, 0, len(edges))
	for _, edge := range edges {
		if f.Ignored(edge.DepName) {
			continue
		}
		kept = append(kept, edge)
	}
	return kept
}

// FriendlyName maps a git install URL through the allowlist and strips
// any pip extras suffix.
func (f DependencyFilter) FriendlyName(installName string) string {
	if strings.Contains(installName, "github.com") {
		if name, ok := f.allowlist[installName]; ok {
			return name
		}
	}
	return shared.StripExtras(installName)
}
