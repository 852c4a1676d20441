package types

import "time"

// DependencyInfo is the per-dependency snapshot returned by the
// compatibility checker's self-check response.
type DependencyInfo struct {
	InstalledVersion  string
	InstalledTime     time.Time
	LatestVersion     string
	LatestVersionTime *time.Time
	IsLatest          bool
	CurrentTime       time.Time
}

// CheckResult is the decoded response of one remote compatibility
// check. Requirements holds the newline-delimited "name==version"
// pairs that pip resolved. DependencyInfo is only present on self
// checks.
type CheckResult struct {
	Result         Status
	Packages       []string
	Description    string
	Requirements   string
	DependencyInfo map[string]DependencyInfo
}

// Edges converts the dependency info of a self check for the given
// package into dependency edge rows.
func (r CheckResult) Edges(installName string) []DependencyEdge {
	edges := make([]DependencyEdge, 0, len(r.DependencyInfo))
	for dep, info := range r.DependencyInfo {
		edges = append(edges, DependencyEdge{
			Package:           installName,
			DepName:           dep,
			InstalledVersion:  info.InstalledVersion,
			InstalledTime:     info.InstalledTime,
			LatestVersion:     info.LatestVersion,
			LatestVersionTime: info.LatestVersionTime,
			IsLatest:          info.IsLatest,
			Timestamp:         info.CurrentTime,
		})
	}
	return edges
}

// ReleaseInfo is registry metadata for one released package.
type ReleaseInfo struct {
	Name              string
	LatestVersion     string
	LatestVersionTime *time.Time
	DevelopmentStatus string
}
