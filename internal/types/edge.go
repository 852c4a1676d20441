package types

import "time"

// DependencyEdge is one dependency relationship snapshot taken at
// check time: a tracked package depending on DepName at
// InstalledVersion while LatestVersion was the newest release.
// LatestVersionTime is nil when the registry lookup failed.
type DependencyEdge struct {
	Package           string
	DepName           string
	InstalledVersion  string
	InstalledTime     time.Time
	LatestVersion     string
	LatestVersionTime *time.Time
	IsLatest          bool
	Timestamp         time.Time
}

// Classification reason names, in rule order.
const (
	ReasonMajorRelease = "major-release-available"
	ReasonStale        = "stale-over-6-months"
	ReasonMinorBehind  = "3-or-more-minor-behind"
	ReasonMinorUpdate  = "minor-update-available"
	ReasonUnstable     = "unstable-release"
	ReasonUnparseable  = "unparseable-version"
)

// PriorityVerdict is the derived update recommendation for one edge.
// It is recomputed on every classification pass and never persisted.
type PriorityVerdict struct {
	Edge    DependencyEdge
	Level   PriorityLevel
	Reasons []string
	Details string
}

// Outdated reports whether the verdict calls for any action at all.
func (v PriorityVerdict) Outdated() bool {
	return v.Level != PriorityUpToDate
}
