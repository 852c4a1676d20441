package app

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"pycompat/internal/shared"
)

// pypi marks abandoned projects with this trove classifier.
const inactiveClassifier = "Development Status :: 7 - Inactive"

// Deprecated reports, per tracked package, the dependencies whose
// registry entry is marked inactive. Registry lookup failures skip the
// dependency rather than failing the whole scan.
func (s Service) Deprecated(ctx context.Context, req DeprecatedRequest) (DeprecatedResult, error) {
	packages, _, err := s.resolvePortfolio(req.PortfolioPath, req.Packages)
	if err != nil {
		return DeprecatedResult{}, err
	}
	inactive := map[string]bool{}
	result := DeprecatedResult{Deprecated: make(map[string][]string, len(packages))}
	for _, pkg := range packages {
		edges, err := s.dependencyEdges(ctx, pkg)
		if err != nil {
			return DeprecatedResult{}, err
		}
		deprecated := []string{}
		seen := map[string]bool{}
		for _, edge := range edges {
			dep := shared.NormalizePipName(edge.DepName)
			if seen[dep] {
				continue
			}
			seen[dep] = true
			flagged, ok := inactive[dep]
			if !ok {
				info, err := s.Registry.ReleaseInfo(ctx, dep)
				if err != nil {
					log.Warn().Str("dependency", dep).Err(err).Msg("registry lookup failed")
					continue
				}
				flagged = info.DevelopmentStatus == inactiveClassifier
				inactive[dep] = flagged
			}
			if flagged {
				deprecated = append(deprecated, dep)
			}
		}
		sort.Strings(deprecated)
		result.Deprecated[pkg] = deprecated
	}
	return result, nil
}
