package core

import (
	"errors"
	"fmt"
	"time"

	"pycompat/internal/types"
)

const (
	// defaultGracePeriod is how long a newer release may exist before
	// lagging behind it alone becomes high priority.
	defaultGracePeriod = 183 * 24 * time.Hour

	// allowedMinorDiff is the number of minor versions a dependency may
	// trail within the same major release before escalation.
	allowedMinorDiff = 3
)

// PriorityClassifier computes update-priority verdicts for dependency
// edges. Rules are evaluated independently: every triggered rule
// appends its reason and any trigger escalates the verdict to high.
type PriorityClassifier struct {
	versions *VersionComparator
}

func NewPriorityClassifier() *PriorityClassifier {
	return &PriorityClassifier{versions: NewVersionComparator()}
}

// Classify derives the verdict for a single dependency edge at the
// given reference time. It never returns an error: versions that
// cannot be parsed produce a low-priority verdict.
func (p *PriorityClassifier) Classify(edge types.DependencyEdge, now time.Time) types.PriorityVerdict {
	if edge.IsLatest || p.versions.Same(edge.InstalledVersion, edge.LatestVersion) {
		return types.PriorityVerdict{Edge: edge, Level: types.PriorityUpToDate}
	}

	installed, err := p.versions.ParseRelease(edge.InstalledVersion)
	if errors.Is(err, ErrUnstableRelease) {
		return types.PriorityVerdict{
			Edge:    edge,
			Level:   types.PriorityHigh,
			Reasons: []string{types.ReasonUnstable},
			Details: fmt.Sprintf("a dependency cannot pin an unstable release %s", edge.InstalledVersion),
		}
	}
	if err != nil {
		return unparseableVerdict(edge)
	}
	latest, err := p.versions.ParseRelease(edge.LatestVersion)
	if err != nil {
		return unparseableVerdict(edge)
	}

	var reasons []string
	if latest.Major-installed.Major >= 1 {
		reasons = append(reasons, types.ReasonMajorRelease)
	}
	if edge.LatestVersionTime != nil && ElapsedSince(*edge.LatestVersionTime, now) > defaultGracePeriod {
		reasons = append(reasons, types.ReasonStale)
	}
	if latest.Major == installed.Major && latest.Minor-installed.Minor >= allowedMinorDiff {
		reasons = append(reasons, types.ReasonMinorBehind)
	}

	if len(reasons) > 0 {
		return types.PriorityVerdict{
			Edge:    edge,
			Level:   types.PriorityHigh,
			Reasons: reasons,
			Details: detailsFor(reasons[0]),
		}
	}
	return types.PriorityVerdict{
		Edge:    edge,
		Level:   types.PriorityLow,
		Reasons: []string{types.ReasonMinorUpdate},
		Details: detailsFor(types.ReasonMinorUpdate),
	}
}

// ClassifyEdges classifies every edge, preserving input order.
func (p *PriorityClassifier) ClassifyEdges(edges []types.DependencyEdge, now time.Time) []types.PriorityVerdict {
	verdicts := make([]types.PriorityVerdict, 0, len(edges))
	for _, edge := range edges {
		verdicts = append(verdicts, p.Classify(edge, now))
	}
	return verdicts
}

func unparseableVerdict(edge types.DependencyEdge) types.PriorityVerdict {
	return types.PriorityVerdict{
		Edge:    edge,
		Level:   types.PriorityLow,
		Reasons: []string{types.ReasonUnparseable},
		Details: fmt.Sprintf("cannot determine priority for %s (installed %s, latest %s)",
			edge.DepName, edge.InstalledVersion, edge.LatestVersion),
	}
}

func detailsFor(reason string) string {
	switch reason {
	case types.ReasonMajorRelease:
		return "this dependency is 1 or more major versions behind the latest version"
	case types.ReasonStale:
		return "it has been over 6 months since the latest version for this dependency was released"
	case types.ReasonMinorBehind:
		return "this dependency is 3 or more minor versions behind the latest version"
	default:
		return "this dependency is not up to date with the latest version"
	}
}
