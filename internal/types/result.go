package types

import (
	"sort"
	"time"
)

// Package is a pip-installable Python package. InstallName is what
// would be passed to "pip install", which may be a git URL for
// unreleased packages. FriendlyName is the display name.
type Package struct {
	InstallName  string
	FriendlyName string
}

func NewPackage(installName string) Package {
	return Package{InstallName: installName, FriendlyName: installName}
}

// CompatibilityResult is one compatibility check outcome. Packages has
// one element for a self check and two for a pairwise check. Pairwise
// results are stored with names in canonical (lower, higher) order.
type CompatibilityResult struct {
	Packages  []string
	PyVersion PyVersion
	Status    Status
	Details   string
	Timestamp time.Time
}

// CanonicalPair returns the two names sorted lexicographically. The
// store keys pairwise rows this way so that (A,B) and (B,A) share one
// row.
func CanonicalPair(a string, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// SortedCopy returns the package names in canonical order without
// mutating the receiver.
func (r CompatibilityResult) SortedCopy() []string {
	names := append([]string(nil), r.Packages...)
	sort.Strings(names)
	return names
}
