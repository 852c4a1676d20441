// Package testutil provides shared test helpers used across
// integration and unit test packages.
package testutil

import "time"

// TimePtr returns a pointer to the given time, for nullable release
// timestamps in test fixtures.
func TimePtr(ts time.Time) *time.Time {
	return &ts
}
