package core

import (
	"errors"
	"strconv"
	"strings"
	"time"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

// ErrUnstableRelease marks a version that parses as PEP 440 but is not
// a plain numeric release, e.g. "1.0.dev1" or "2.1a0".
var ErrUnstableRelease = errors.New("unstable release")

// ErrUnparseableVersion marks a version string that cannot be parsed
// at all. Callers treat it as "cannot classify", never as a failure.
var ErrUnparseableVersion = errors.New("unparseable version")

// ReleaseTag is a release version reduced to its numeric segments.
// Two-segment versions get an implicit patch of zero; a fourth segment
// is accepted and ignored beyond ordering.
type ReleaseTag struct {
	Major int
	Minor int
	Patch int
}

// Distance is the segment-wise difference between two release tags,
// computed latest minus installed. Unparseable is set when either side
// could not be reduced to a ReleaseTag.
type Distance struct {
	Major       int
	Minor       int
	Patch       int
	Unparseable bool
}

// VersionComparator parses and compares release version strings. It
// memoizes parsed tags so repeated classification passes over the same
// dependency set stay cheap.
type VersionComparator struct {
	tags map[string]ReleaseTag
	errs map[string]error
	pep  map[string]pep440.Version
}

func NewVersionComparator() *VersionComparator {
	return &VersionComparator{
		tags: map[string]ReleaseTag{},
		errs: map[string]error{},
		pep:  map[string]pep440.Version{},
	}
}

// ParseRelease reduces a version string to its numeric segments.
// Returns ErrUnstableRelease for valid pre-release or dev tags and
// ErrUnparseableVersion for anything else that does not parse.
func (c *VersionComparator) ParseRelease(value string) (ReleaseTag, error) {
	trimmed := strings.TrimSpace(value)
	if tag, ok := c.tags[trimmed]; ok {
		return tag, nil
	}
	if err, ok := c.errs[trimmed]; ok {
		return ReleaseTag{}, err
	}
	tag, err := parseReleaseTag(trimmed)
	if err != nil {
		// A numeric string with the wrong segment count stays
		// unparseable; PEP 440 parseability only marks pre-release
		// and dev tags as unstable.
		if _, pepErr := c.pepVersion(trimmed); pepErr == nil && !numericSegments(trimmed) {
			err = ErrUnstableRelease
		}
		c.errs[trimmed] = err
		return ReleaseTag{}, err
	}
	c.tags[trimmed] = tag
	return tag, nil
}

// Compare returns the segment-wise distance from installed to latest.
// It never fails: unparseable input yields a marked Distance.
func (c *VersionComparator) Compare(installed string, latest string) Distance {
	installedTag, err := c.ParseRelease(installed)
	if err != nil {
		return Distance{Unparseable: true}
	}
	latestTag, err := c.ParseRelease(latest)
	if err != nil {
		return Distance{Unparseable: true}
	}
	return Distance{
		Major: latestTag.Major - installedTag.Major,
		Minor: latestTag.Minor - installedTag.Minor,
		Patch: latestTag.Patch - installedTag.Patch,
	}
}

// Same reports whether two version strings denote the same release,
// using PEP 440 equality when both parse and exact string equality
// otherwise.
func (c *VersionComparator) Same(a string, b string) bool {
	if strings.TrimSpace(a) == strings.TrimSpace(b) {
		return true
	}
	v1, err1 := c.pepVersion(a)
	v2, err2 := c.pepVersion(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return v1.Equal(v2)
}

// Newer reports whether a orders strictly after b under PEP 440. When
// either side fails to parse only a parseable a beats an unparseable b.
func (c *VersionComparator) Newer(a string, b string) bool {
	va, errA := c.pepVersion(a)
	vb, errB := c.pepVersion(b)
	if errA != nil {
		return false
	}
	if errB != nil {
		return true
	}
	return va.GreaterThan(vb)
}

// ElapsedSince returns the duration between a release timestamp and
// the reference time. Pure, no clock access.
func ElapsedSince(ts time.Time, now time.Time) time.Duration {
	return now.Sub(ts)
}

// pepVersion returns a parsed PEP 440 version, caching the result.
func (c *VersionComparator) pepVersion(value string) (pep440.Version, error) {
	trimmed := strings.TrimSpace(value)
	if parsed, ok := c.pep[trimmed]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(trimmed)
	if err != nil {
		return pep440.Version{}, err
	}
	c.pep[trimmed] = parsed
	return parsed, nil
}

// parseReleaseTag accepts two to four dot-separated numeric segments.
func parseReleaseTag(value string) (ReleaseTag, error) {
	segments := strings.Split(value, ".")
	if len(segments) < 2 || len(segments) > 4 {
		return ReleaseTag{}, ErrUnparseableVersion
	}
	numbers := make([]int, 0, len(segments))
	for _, segment := range segments {
		n, err := strconv.Atoi(segment)
		if err != nil || n < 0 {
			return ReleaseTag{}, ErrUnparseableVersion
		}
		numbers = append(numbers, n)
	}
	tag := ReleaseTag{Major: numbers[0], Minor: numbers[1]}
	if len(numbers) > 2 {
		tag.Patch = numbers[2]
	}
	return tag, nil
}

// numericSegments reports whether every dot-separated segment is a
// plain integer, regardless of how many there are.
func numericSegments(value string) bool {
	for _, segment := range strings.Split(value, ".") {
		if _, err := strconv.Atoi(segment); err != nil {
			return false
		}
	}
	return true
}
